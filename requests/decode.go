package requests

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/theoremus-urban-solutions/transit-catalogue/catalogue"
)

// ErrInvalidDocument is returned for documents that are not well formed or
// fail validation.
var ErrInvalidDocument = errors.New("invalid request document")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateStatRequest, StatRequest{})
	return v
}

func validateStatRequest(sl validator.StructLevel) {
	req := sl.Current().Interface().(StatRequest)
	switch req.Type {
	case StatBus, StatStop:
		if req.Name == "" {
			sl.ReportError(req.Name, "Name", "name", "required", "")
		}
	case StatRoute:
		if req.From == "" {
			sl.ReportError(req.From, "From", "from", "required", "")
		}
		if req.To == "" {
			sl.ReportError(req.To, "To", "to", "required", "")
		}
	}
}

// Decode reads and validates a request document.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks doc against its field constraints.
func Validate(doc *Document) error {
	if err := validate.Struct(doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return nil
}

// Populate feeds the base requests of doc into l: every stop first, then
// every road distance, then every bus, each in document order. Routing
// settings are applied last when present.
func Populate(doc *Document, l *catalogue.Loader) error {
	for _, req := range doc.BaseRequests {
		if req.Type != TypeStop {
			continue
		}
		if _, err := l.AddStop(req.Name, req.Latitude, req.Longitude); err != nil {
			return fmt.Errorf("stop %q: %w", req.Name, err)
		}
	}

	for _, req := range doc.BaseRequests {
		if req.Type != TypeStop || len(req.RoadDistances) == 0 {
			continue
		}
		neighbours := make([]string, 0, len(req.RoadDistances))
		for name := range req.RoadDistances {
			neighbours = append(neighbours, name)
		}
		sort.Strings(neighbours)
		for _, to := range neighbours {
			if err := l.SetDistanceByName(req.Name, to, req.RoadDistances[to]); err != nil {
				return fmt.Errorf("road distance %q -> %q: %w", req.Name, to, err)
			}
		}
	}

	for _, req := range doc.BaseRequests {
		if req.Type != TypeBus {
			continue
		}
		if err := l.AddRoute(req.Name, req.Stops, req.IsRoundtrip); err != nil {
			return fmt.Errorf("bus %q: %w", req.Name, err)
		}
	}

	if s := doc.RoutingSettings; s != nil {
		err := l.SetRoutingSettings(catalogue.RoutingSettings{
			WaitTimeMinutes: s.BusWaitTime,
			BusVelocityKMH:  s.BusVelocity,
		})
		if err != nil {
			return fmt.Errorf("routing settings: %w", err)
		}
	}
	return nil
}

// Load builds a sealed catalogue from the base requests of doc.
func Load(doc *Document) (*catalogue.Catalogue, error) {
	l := catalogue.NewLoader()
	if err := Populate(doc, l); err != nil {
		return nil, err
	}
	return l.Build()
}
