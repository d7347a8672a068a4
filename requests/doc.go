// Package requests reads the JSON request document, loads its base requests
// into a catalogue and answers its stat requests.
//
// A document looks like:
//
//	{
//	  "serialization_settings": {"file": "transport.db"},
//	  "routing_settings": {"bus_wait_time": 6, "bus_velocity": 40},
//	  "render_settings": {...},
//	  "base_requests": [
//	    {"type": "Stop", "name": "Marushkino", "latitude": 55.595884, "longitude": 37.209755,
//	     "road_distances": {"Rasskazovka": 9900}},
//	    {"type": "Bus", "name": "750", "stops": ["Tolstopaltsevo", "Marushkino"], "is_roundtrip": false}
//	  ],
//	  "stat_requests": [
//	    {"id": 1, "type": "Bus", "name": "750"},
//	    {"id": 2, "type": "Stop", "name": "Marushkino"},
//	    {"id": 3, "type": "Route", "from": "Tolstopaltsevo", "to": "Marushkino"}
//	  ]
//	}
//
// render_settings is kept as raw JSON and stored in the snapshot untouched.
package requests
