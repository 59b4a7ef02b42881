package registry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/WessleyAI/garage-mvp/engine/domain"
	"github.com/WessleyAI/garage-mvp/pkg/repo"
)

// GraphStore persists registered vehicles in Neo4j, linked both to the
// owning user and into the Make→VehicleModel hierarchy so the knowledge
// side of the graph can reach them.
type GraphStore struct {
	driver   neo4j.DriverWithContext
	vehicles *repo.Neo4jRepo[domain.Vehicle, string]
}

// NewGraphStore creates a Neo4j-backed vehicle store.
func NewGraphStore(driver neo4j.DriverWithContext) *GraphStore {
	return &GraphStore{
		driver:   driver,
		vehicles: repo.NewNeo4jRepo[domain.Vehicle, string](driver, "Vehicle", vehicleFromRecord),
	}
}

// SaveVehicle upserts the vehicle node, its OWNS edge from the user,
// and the Make→VehicleModel hierarchy, in a single transaction.
func (g *GraphStore) SaveVehicle(ctx context.Context, v domain.Vehicle) error {
	sess := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	makeID := strings.ToLower(v.Make)
	modelID := fmt.Sprintf("%s-%s", makeID, strings.ToLower(strings.ReplaceAll(v.Model, " ", "-")))

	_, err := sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		cypher := `MERGE (mk:Make {id: $makeID}) SET mk.name = $make`
		if _, err := tx.Run(ctx, cypher, map[string]any{"makeID": makeID, "make": v.Make}); err != nil {
			return nil, err
		}

		cypher = `MERGE (m:VehicleModel {id: $modelID}) SET m.name = $model, m.make_id = $makeID
		          WITH m
		          MATCH (mk:Make {id: $makeID})
		          MERGE (mk)-[:HAS_MODEL]->(m)`
		if _, err := tx.Run(ctx, cypher, map[string]any{"modelID": modelID, "model": v.Model, "makeID": makeID}); err != nil {
			return nil, err
		}

		cypher = `MERGE (v:Vehicle {id: $id}) SET v += $props
		          WITH v
		          MATCH (m:VehicleModel {id: $modelID})
		          MERGE (v)-[:OF_MODEL]->(m)
		          WITH v
		          MERGE (u:User {id: $userID})
		          MERGE (u)-[:OWNS]->(v)`
		if _, err := tx.Run(ctx, cypher, map[string]any{
			"id":      v.ID,
			"props":   vehicleToMap(v),
			"modelID": modelID,
			"userID":  v.UserID,
		}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

// LoadVehicles returns all vehicles owned by a user. Ownership is
// mirrored on the user_id property, so the generic repository can
// filter without walking the OWNS edge.
func (g *GraphStore) LoadVehicles(ctx context.Context, userID string) ([]domain.Vehicle, error) {
	return g.vehicles.List(ctx, repo.ListOpts{
		Filter:  map[string]any{"user_id": userID},
		OrderBy: "id",
	})
}

// DeleteVehicle removes the vehicle node and its relationships.
func (g *GraphStore) DeleteVehicle(ctx context.Context, id string) error {
	return g.vehicles.Delete(ctx, id)
}

func vehicleToMap(v domain.Vehicle) map[string]any {
	m := map[string]any{
		"id":      v.ID,
		"user_id": v.UserID,
		"make":    v.Make,
		"model":   v.Model,
		"year":    v.Year,
	}
	if v.VIN != "" {
		m["vin"] = v.VIN
	}
	if v.Mileage > 0 {
		m["mileage"] = v.Mileage
	}
	if !v.LastService.IsZero() {
		m["last_service"] = v.LastService.Format(time.RFC3339)
	}
	if v.ImageURL != "" {
		m["image_url"] = v.ImageURL
	}
	return m
}

func vehicleFromRecord(rec *neo4j.Record) (domain.Vehicle, error) {
	node, _, err := neo4j.GetRecordValue[dbtype.Node](rec, "n")
	if err != nil {
		return domain.Vehicle{}, err
	}
	return vehicleFromProps(node.Props), nil
}

func vehicleFromProps(props map[string]any) domain.Vehicle {
	v := domain.Vehicle{
		ID:       strProp(props, "id"),
		UserID:   strProp(props, "user_id"),
		Make:     strProp(props, "make"),
		Model:    strProp(props, "model"),
		Year:     intProp(props, "year"),
		VIN:      strProp(props, "vin"),
		Mileage:  intProp(props, "mileage"),
		ImageURL: strProp(props, "image_url"),
	}
	if s := strProp(props, "last_service"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			v.LastService = t
		}
	}
	return v
}

func strProp(props map[string]any, key string) string {
	if s, ok := props[key].(string); ok {
		return s
	}
	return ""
}

func intProp(props map[string]any, key string) int {
	switch v := props[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
