/*
Package router derives the routing graph from a sealed catalogue and answers
fastest-journey queries over it.

# Graph

Every stop is a vertex. For each route and every pair of positions i < j on
its stop sequence there is an edge stop[i] -> stop[j] whose weight is the
ride time over the accumulated road distance plus one boarding wait:

	weight = meters / (velocity_kmh * 1000 / 60) + wait_minutes

Routes that are not round trips also get the reverse edge stop[j] -> stop[i],
accumulated from the directional distances of the way back. A route with n
stops therefore contributes O(n²) edges.

# Queries

	r, err := router.New(cat)
	if err != nil {
	    // missing routing settings or distances
	}
	info, ok := r.FindRoute(fromID, toID)

Each edge of the optimal path is one leg: the passenger waits at the leg's
first stop, then rides a single route for SpanCount stops. The wait is paid
once per leg.
*/
package router
