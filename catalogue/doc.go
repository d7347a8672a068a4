/*
Package catalogue holds the transit network: stops, routes and the road
distances between stops.

Loading and querying are separate phases. A Loader accepts stops, distances,
routes and routing settings; Build seals it and returns an immutable
Catalogue that only answers queries.

# Basic Usage

	l := catalogue.NewLoader()
	a, _ := l.AddStop("Tolstopaltsevo", 55.611087, 37.20829)
	b, _ := l.AddStop("Marushkino", 55.595884, 37.209755)
	_ = l.SetDistance(a, b, 3900)
	_ = l.AddRoute("750", []string{"Tolstopaltsevo", "Marushkino"}, false)

	cat, err := l.Build()
	if err != nil {
	    log.Fatal(err)
	}

	stat, err := cat.GetBusStat("750")
	buses, ok := cat.GetBusesByStop("Marushkino")

# Identity

Stops receive dense, zero-based ids in insertion order. Every cross reference
(route stop sequences, distance keys, routing graph vertices) uses the id,
never the name or a pointer. Names are unique: adding a stop or route under a
name that already exists is rejected.

# Distances

Road distances are directional. A lookup for (from, to) falls back to
(to, from) when only the reverse was recorded; when neither exists the lookup
fails and any computation depending on it returns ErrMissingDistance.
*/
package catalogue
