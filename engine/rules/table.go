package rules

// DefaultSet returns the built-in rule table. Order matters: earlier
// topics win when an input mentions several, so the common hard
// symptoms sit near the top.
func DefaultSet() *Set {
	set, err := NewSet(defaultRules...)
	if err != nil {
		// The built-in table is validated by tests; a bad entry is a
		// programming error.
		panic(err)
	}
	return set
}

var defaultRules = []Rule{
	{
		Topic: "oil",
		Default: Variant{
			Texts: []string{
				"For your {vehicle}, an oil change is recommended every 5,000-7,500 miles with conventional oil, or up to 10,000 miles with full synthetic.",
				"Your {vehicle} will run happiest with fresh oil. Check the dipstick monthly; dark, gritty oil means it's due.",
			},
			Parts: []Part{
				{Name: "Oil filter", Description: "Spin-on cartridge filter", EstimatedCost: 12},
				{Name: "Engine oil (5qt)", Description: "Full synthetic 0W-20", EstimatedCost: 32},
			},
			ImageURL: "https://cdn.garage.dev/kb/oil-change.jpg",
		},
		Specific: map[string]Variant{
			"Toyota": {
				Texts: []string{
					"Toyota recommends 0W-20 synthetic for most modern engines. For your {vehicle}, stick to 10,000-mile intervals under normal driving.",
				},
				Parts: []Part{
					{Name: "Genuine Toyota oil filter", Description: "04152-YZZA1 cartridge", EstimatedCost: 9},
				},
				ImageURL: "https://cdn.garage.dev/kb/toyota-oil.jpg",
			},
			"BMW": {
				Texts: []string{
					"BMW engines are picky about oil: use an LL-01 approved synthetic in your {vehicle} and don't stretch past 8,000 miles despite what the iDrive says.",
				},
				Parts: []Part{
					{Name: "BMW oil filter kit", Description: "Includes drain plug washer", EstimatedCost: 24},
				},
			},
		},
	},
	{
		Topic: "brake",
		Default: Variant{
			Texts: []string{
				"Squealing or grinding from your {vehicle}'s brakes usually means worn pads. Get them inspected soon; grinding means the rotors are already suffering.",
				"Brake issues on a {vehicle} are not something to postpone. If the pedal feels spongy, check the fluid level first, then have the lines inspected.",
			},
			Parts: []Part{
				{Name: "Brake pads (front axle)", Description: "Ceramic pad set", EstimatedCost: 45},
				{Name: "Brake rotors (pair)", Description: "Vented front rotors", EstimatedCost: 110},
			},
			ImageURL: "https://cdn.garage.dev/kb/brake-pads.jpg",
		},
		Specific: map[string]Variant{
			"Honda": {
				Texts: []string{
					"Hondas of your {vehicle}'s generation are known for rear pads wearing faster than fronts. Have both axles measured.",
				},
				Parts: []Part{
					{Name: "Honda rear pad set", Description: "OE-spec rear pads", EstimatedCost: 38},
				},
			},
		},
	},
	{
		Topic: "battery",
		Default: Variant{
			Texts: []string{
				"Slow cranking on your {vehicle} points to a weak battery or corroded terminals. Most batteries last 3-5 years; have it load-tested for free at a parts store.",
				"If your {vehicle} needs a jump more than once, replace the battery before it strands you. Also have the alternator output checked.",
			},
			Parts: []Part{
				{Name: "12V battery", Description: "Group 24F AGM", EstimatedCost: 180},
				{Name: "Terminal cleaning kit", EstimatedCost: 8},
			},
			ImageURL: "https://cdn.garage.dev/kb/battery.jpg",
		},
	},
	{
		Topic: "check engine",
		Default: Variant{
			Texts: []string{
				"A steady check engine light on your {vehicle} is usually an emissions fault; a flashing one means active misfire, stop driving and get it scanned. A code read takes two minutes.",
				"Don't guess at a check engine light. Pull the codes on your {vehicle} first; a loose gas cap is the classic false alarm.",
			},
			ImageURL: "https://cdn.garage.dev/kb/obd-scan.jpg",
		},
	},
	{
		Topic: "overheat",
		Default: Variant{
			Texts: []string{
				"An overheating {vehicle} is an emergency: pull over, let it cool, and check coolant level. Driving hot warps heads. Common causes are a stuck thermostat, failed water pump, or a leaking hose.",
			},
			Parts: []Part{
				{Name: "Thermostat", EstimatedCost: 25},
				{Name: "Coolant (1 gal)", Description: "Use the type your owner's manual lists", EstimatedCost: 20},
			},
		},
	},
	{
		Topic: "coolant",
		Default: Variant{
			Texts: []string{
				"Low coolant in your {vehicle} with no visible puddle often means a slow radiator or heater-core leak. Pressure-test the system before topping up and forgetting it.",
			},
			Parts: []Part{
				{Name: "Radiator hose set", EstimatedCost: 40},
			},
		},
	},
	{
		Topic: "transmission",
		Default: Variant{
			Texts: []string{
				"Harsh or slipping shifts on your {vehicle} call for a fluid check first: level, color, and smell. Burnt fluid means the clutches are wearing.",
				"Transmission symptoms on a {vehicle} are cheapest to fix early. A fluid and filter service runs far less than a rebuild.",
			},
			Parts: []Part{
				{Name: "ATF (per quart)", EstimatedCost: 11},
				{Name: "Transmission filter kit", EstimatedCost: 35},
			},
		},
		Specific: map[string]Variant{
			"Nissan": {
				Texts: []string{
					"Your {vehicle} likely runs a CVT; shudder or rubber-band feel is a known pattern. Use only NS-spec CVT fluid and check for extended warranty coverage on the unit.",
				},
			},
		},
	},
	{
		Topic: "tire",
		Default: Variant{
			Texts: []string{
				"Check your {vehicle}'s tire pressures monthly against the door-jamb sticker, not the number on the sidewall. Uneven wear usually means alignment.",
				"Rotate the tires on your {vehicle} every 5,000-8,000 miles. The penny test tells you when tread is done: if you see all of Lincoln's head, replace.",
			},
			ImageURL: "https://cdn.garage.dev/kb/tire-wear.jpg",
		},
	},
	{
		Topic: "start",
		Default: Variant{
			Texts: []string{
				"A no-start on your {vehicle} splits three ways: no crank (battery/starter), crank but no fire (fuel/spark), or immobilizer. Which noise do you hear when you turn the key?",
			},
			Parts: []Part{
				{Name: "Starter motor", EstimatedCost: 150},
			},
		},
	},
	{
		Topic: "noise",
		Default: Variant{
			Texts: []string{
				"Noises are about location and timing. Where on your {vehicle} is it coming from, and does it change with speed, braking, or turning?",
				"A clunk over bumps on a {vehicle} often points at sway bar links or control arm bushings. A whine that rises with speed is usually a wheel bearing.",
			},
		},
	},
	{
		Topic: "ac",
		Default: Variant{
			Texts: []string{
				"Weak or warm A/C in your {vehicle} most often means low refrigerant from a slow leak. A proper shop will find the leak with dye rather than just topping off.",
			},
			Parts: []Part{
				{Name: "Cabin air filter", Description: "Replace yearly", EstimatedCost: 15},
			},
		},
	},
	{
		Topic: "wiper",
		Default: Variant{
			Texts: []string{
				"Streaking wipers on your {vehicle} are a two-minute fix. Replace the blades every 6-12 months and top up washer fluid while you're in there.",
			},
			Parts: []Part{
				{Name: "Wiper blade pair", EstimatedCost: 22},
			},
		},
	},
}
