package semantic

import (
	"testing"

	"github.com/google/uuid"
)

func TestPointIDIsValidUUID(t *testing.T) {
	for _, articleID := range []string{"kb-oil-interval", "kb-brake-wear", "kb-battery-life"} {
		id := pointID(articleID)
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("point id for %q is %q, not a uuid: %v", articleID, id, err)
		}
	}
}

func TestPointIDDeterministic(t *testing.T) {
	a := pointID("kb-oil-interval")
	if b := pointID("kb-oil-interval"); b != a {
		t.Errorf("same article produced different point ids: %q vs %q", a, b)
	}
	if c := pointID("kb-brake-wear"); c == a {
		t.Error("distinct articles must map to distinct point ids")
	}
}

func TestArticlePayloadCarriesArticleID(t *testing.T) {
	p := articlePayload(Article{ID: "kb-oil-interval", Title: "Oil", System: "engine", Content: "..."})
	if got := p["id"].GetStringValue(); got != "kb-oil-interval" {
		t.Errorf("payload id = %q, want the article id", got)
	}
}
