package assist

import "github.com/WessleyAI/garage-mvp/engine/semantic"

// DefaultArticles is the built-in knowledge-base seed. Each article
// covers a topic the rule table handles only shallowly, so the
// semantic stage can answer phrasings the keyword scan misses.
func DefaultArticles() []semantic.Article {
	return []semantic.Article{
		{
			ID:      "kb-oil-interval",
			Title:   "Oil change intervals for modern engines",
			System:  "engine",
			Content: "Most modern engines on synthetic oil run 7,500 to 10,000 miles between changes. Turbocharged and direct-injection engines shear oil faster and do better at 5,000 mile intervals. Check the dipstick monthly regardless of interval.",
			Source:  "builtin",
		},
		{
			ID:      "kb-brake-squeal",
			Title:   "Why brakes squeal after sitting",
			System:  "brakes",
			Content: "Surface rust forms on rotors overnight, especially after rain. A few firm stops scrub it off. Persistent squeal under light braking usually means the pad wear indicator is contacting the rotor and the pads are due.",
			Source:  "builtin",
		},
		{
			ID:      "kb-battery-parasitic",
			Title:   "Diagnosing a battery that drains overnight",
			System:  "electrical",
			Content: "A healthy battery that dies overnight points to a parasitic draw. Pull fuses one at a time with a multimeter in series on the negative terminal; anything over 50 milliamps at rest is suspect. Aftermarket stereos and trunk lights are common culprits.",
			Source:  "builtin",
		},
		{
			ID:      "kb-coolant-mixing",
			Title:   "Never mix coolant types",
			System:  "cooling",
			Content: "OAT, HOAT, and IAT coolants use different corrosion inhibitors and can gel when mixed, clogging the heater core. Top up only with the type your cap or manual specifies, or flush completely before switching.",
			Source:  "builtin",
		},
		{
			ID:      "kb-cvt-fluid",
			Title:   "CVT fluid is not optional maintenance",
			System:  "transmission",
			Content: "Continuously variable transmissions rely on fluid friction characteristics, not just lubrication. Lifetime fluid claims assume a lifetime of about 100,000 miles. Changing CVT fluid every 30,000 to 60,000 miles dramatically extends belt and pulley life.",
			Source:  "builtin",
		},
		{
			ID:      "kb-tire-date",
			Title:   "Tires age out before they wear out",
			System:  "tires",
			Content: "Rubber hardens with age regardless of tread depth. The DOT code on the sidewall shows the build week and year; most manufacturers recommend replacement at six years and refuse to warranty past ten, even with legal tread remaining.",
			Source:  "builtin",
		},
		{
			ID:      "kb-misfire-causes",
			Title:   "Chasing a random misfire",
			System:  "engine",
			Content: "P0300 random misfire codes start with the cheap stuff: plugs, coil boots, and vacuum leaks. Spray carb cleaner around intake joints at idle; an RPM change reveals a leak. Only after that look at injectors and compression.",
			Source:  "builtin",
		},
		{
			ID:      "kb-ac-recharge",
			Title:   "Weak AC usually means a leak",
			System:  "hvac",
			Content: "Refrigerant does not get consumed; a low charge means it escaped. DIY recharge cans mask the problem and their sealant additives can destroy compressors. Have the system evacuated, leak-tested with dye, and charged by weight.",
			Source:  "builtin",
		},
		{
			ID:      "kb-timing-belt",
			Title:   "Interference engines and timing belts",
			System:  "engine",
			Content: "On an interference engine a snapped timing belt lets pistons strike open valves, turning a few hundred dollar service into a rebuilt head. Replace the belt, tensioner, and water pump together at the interval in the manual, usually 60,000 to 105,000 miles.",
			Source:  "builtin",
		},
		{
			ID:      "kb-wheel-bearing",
			Title:   "Telling wheel bearing noise from tire noise",
			System:  "suspension",
			Content: "A worn wheel bearing drones or growls and changes pitch when you load it by swerving gently; tire noise tracks road surface instead. A bearing that changes with steering input on the highway should be replaced soon, it can seize.",
			Source:  "builtin",
		},
	}
}
