package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/theoremus-urban-solutions/transit-catalogue/catalogue"
)

// FormatVersion is written into every header. Readers reject other versions.
const FormatVersion = 1

const (
	fieldHeader protowire.Number = iota + 1
	fieldStop
	fieldDistance
	fieldRoute
	fieldRoutingSettings
	fieldRenderSettings
)

// Snapshot is a sealed catalogue together with the data stored alongside it.
type Snapshot struct {
	BuildID        uuid.UUID
	Catalogue      *catalogue.Catalogue
	RenderSettings []byte // opaque, passed through unchanged

	// Size is the encoded length in bytes when the snapshot was decoded
	Size int
}

// New wraps cat in a snapshot with a fresh build id.
func New(cat *catalogue.Catalogue, renderSettings []byte) Snapshot {
	return Snapshot{BuildID: uuid.New(), Catalogue: cat, RenderSettings: renderSettings}
}

// Marshal encodes s.
func Marshal(s Snapshot) ([]byte, error) {
	cat := s.Catalogue
	if cat == nil {
		return nil, ErrNoCatalogue
	}

	var header []byte
	header = protowire.AppendTag(header, 1, protowire.VarintType)
	header = protowire.AppendVarint(header, FormatVersion)
	header = protowire.AppendTag(header, 2, protowire.BytesType)
	header = protowire.AppendBytes(header, s.BuildID[:])
	b := appendMessage(nil, fieldHeader, header)

	var rec []byte
	for _, stop := range cat.Stops() {
		rec = rec[:0]
		rec = protowire.AppendTag(rec, 1, protowire.VarintType)
		rec = protowire.AppendVarint(rec, uint64(stop.ID))
		rec = protowire.AppendTag(rec, 2, protowire.BytesType)
		rec = protowire.AppendString(rec, stop.Name)
		rec = protowire.AppendTag(rec, 3, protowire.Fixed64Type)
		rec = protowire.AppendFixed64(rec, math.Float64bits(stop.Coordinates.Lat))
		rec = protowire.AppendTag(rec, 4, protowire.Fixed64Type)
		rec = protowire.AppendFixed64(rec, math.Float64bits(stop.Coordinates.Lng))
		b = appendMessage(b, fieldStop, rec)
	}

	for _, d := range cat.Distances() {
		rec = rec[:0]
		rec = protowire.AppendTag(rec, 1, protowire.VarintType)
		rec = protowire.AppendVarint(rec, uint64(d.From))
		rec = protowire.AppendTag(rec, 2, protowire.VarintType)
		rec = protowire.AppendVarint(rec, uint64(d.To))
		rec = protowire.AppendTag(rec, 3, protowire.Fixed64Type)
		rec = protowire.AppendFixed64(rec, math.Float64bits(d.Meters))
		b = appendMessage(b, fieldDistance, rec)
	}

	var ids []byte
	for _, route := range cat.Routes() {
		ids = ids[:0]
		for _, id := range route.Stops {
			ids = protowire.AppendVarint(ids, uint64(id))
		}
		rec = rec[:0]
		rec = protowire.AppendTag(rec, 1, protowire.BytesType)
		rec = protowire.AppendString(rec, route.Name)
		rec = protowire.AppendTag(rec, 2, protowire.VarintType)
		rec = protowire.AppendVarint(rec, protowire.EncodeBool(route.IsRoundTrip))
		rec = protowire.AppendTag(rec, 3, protowire.BytesType)
		rec = protowire.AppendBytes(rec, ids)
		b = appendMessage(b, fieldRoute, rec)
	}

	if settings, ok := cat.RoutingSettings(); ok {
		rec = rec[:0]
		rec = protowire.AppendTag(rec, 1, protowire.VarintType)
		rec = protowire.AppendVarint(rec, uint64(settings.WaitTimeMinutes))
		rec = protowire.AppendTag(rec, 2, protowire.VarintType)
		rec = protowire.AppendVarint(rec, uint64(settings.BusVelocityKMH))
		b = appendMessage(b, fieldRoutingSettings, rec)
	}

	if s.RenderSettings != nil {
		b = appendMessage(b, fieldRenderSettings, s.RenderSettings)
	}
	return b, nil
}

// Unmarshal decodes a snapshot and replays it into a sealed catalogue. Any
// inconsistency fails with ErrCorruptSnapshot and nothing is returned.
func Unmarshal(data []byte) (*Snapshot, error) {
	d := &decoder{loader: catalogue.NewLoader()}
	if err := walk(data, d.record); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	if !d.hasHeader {
		return nil, fmt.Errorf("%w: missing header", ErrCorruptSnapshot)
	}
	cat, err := d.loader.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	return &Snapshot{
		BuildID:        d.buildID,
		Catalogue:      cat,
		RenderSettings: d.render,
		Size:           len(data),
	}, nil
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

// field is one decoded tag-value pair. Only the member matching typ is set.
type field struct {
	num     protowire.Number
	typ     protowire.Type
	varint  uint64
	fixed64 uint64
	bytes   []byte
}

func (f field) expect(typ protowire.Type) error {
	if f.typ != typ {
		return fmt.Errorf("field %d: wire type %d, want %d", f.num, f.typ, typ)
	}
	return nil
}

func (f field) asUint32() (uint32, error) {
	if err := f.expect(protowire.VarintType); err != nil {
		return 0, err
	}
	if f.varint > math.MaxUint32 {
		return 0, fmt.Errorf("field %d: value %d overflows uint32", f.num, f.varint)
	}
	return uint32(f.varint), nil
}

func (f field) asFloat64() (float64, error) {
	if err := f.expect(protowire.Fixed64Type); err != nil {
		return 0, err
	}
	return math.Float64frombits(f.fixed64), nil
}

// walk calls fn for every field of a message. Groups are not part of the
// format and are rejected.
func walk(b []byte, fn func(field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		case protowire.Fixed64Type:
			f.fixed64, n = protowire.ConsumeFixed64(b)
		case protowire.Fixed32Type:
			_, n = protowire.ConsumeFixed32(b)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		default:
			return fmt.Errorf("field %d: unsupported wire type %d", num, typ)
		}
		if n < 0 {
			return fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

type decoder struct {
	loader    *catalogue.Loader
	stopNames []string

	hasHeader bool
	buildID   uuid.UUID
	render    []byte
}

func (d *decoder) record(f field) error {
	if !d.hasHeader && f.num != fieldHeader {
		if f.num >= fieldHeader && f.num <= fieldRenderSettings {
			return fmt.Errorf("record %d before header", f.num)
		}
		return nil
	}

	switch f.num {
	case fieldHeader:
		if d.hasHeader {
			return errors.New("duplicate header")
		}
		return d.header(f)
	case fieldStop:
		return d.stop(f)
	case fieldDistance:
		return d.distance(f)
	case fieldRoute:
		return d.route(f)
	case fieldRoutingSettings:
		return d.routingSettings(f)
	case fieldRenderSettings:
		if err := f.expect(protowire.BytesType); err != nil {
			return err
		}
		if d.render != nil {
			return errors.New("duplicate render settings")
		}
		d.render = bytes.Clone(f.bytes)
		if d.render == nil {
			d.render = []byte{}
		}
	}
	return nil
}

func (d *decoder) header(f field) error {
	if err := f.expect(protowire.BytesType); err != nil {
		return err
	}
	var (
		version    uint64
		hasVersion bool
	)
	err := walk(f.bytes, func(f field) error {
		switch f.num {
		case 1:
			if err := f.expect(protowire.VarintType); err != nil {
				return err
			}
			version, hasVersion = f.varint, true
		case 2:
			if err := f.expect(protowire.BytesType); err != nil {
				return err
			}
			id, err := uuid.FromBytes(f.bytes)
			if err != nil {
				return fmt.Errorf("build id: %w", err)
			}
			d.buildID = id
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("header: %w", err)
	}
	if !hasVersion || version != FormatVersion {
		return fmt.Errorf("header: unsupported format version %d", version)
	}
	d.hasHeader = true
	return nil
}

func (d *decoder) stop(f field) error {
	if err := f.expect(protowire.BytesType); err != nil {
		return err
	}
	var (
		id             uint32
		name           string
		lat, lng       float64
		hasID, hasName bool
		hasLat, hasLng bool
	)
	err := walk(f.bytes, func(f field) (err error) {
		switch f.num {
		case 1:
			id, err = f.asUint32()
			hasID = true
		case 2:
			err = f.expect(protowire.BytesType)
			name, hasName = string(f.bytes), true
		case 3:
			lat, err = f.asFloat64()
			hasLat = true
		case 4:
			lng, err = f.asFloat64()
			hasLng = true
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	if !hasID || !hasName || !hasLat || !hasLng {
		return fmt.Errorf("stop %d: incomplete record", len(d.stopNames))
	}
	if int(id) != len(d.stopNames) {
		return fmt.Errorf("stop %q: id %d out of order, want %d", name, id, len(d.stopNames))
	}
	if _, err := d.loader.AddStop(name, lat, lng); err != nil {
		return err
	}
	d.stopNames = append(d.stopNames, name)
	return nil
}

func (d *decoder) distance(f field) error {
	if err := f.expect(protowire.BytesType); err != nil {
		return err
	}
	var (
		from, to                  uint32
		meters                    float64
		hasFrom, hasTo, hasMeters bool
	)
	err := walk(f.bytes, func(f field) (err error) {
		switch f.num {
		case 1:
			from, err = f.asUint32()
			hasFrom = true
		case 2:
			to, err = f.asUint32()
			hasTo = true
		case 3:
			meters, err = f.asFloat64()
			hasMeters = true
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("distance: %w", err)
	}
	if !hasFrom || !hasTo || !hasMeters {
		return errors.New("distance: incomplete record")
	}
	return d.loader.SetDistance(catalogue.StopID(from), catalogue.StopID(to), meters)
}

func (d *decoder) route(f field) error {
	if err := f.expect(protowire.BytesType); err != nil {
		return err
	}
	var (
		name      string
		hasName   bool
		roundTrip bool
		stops     []string
	)
	resolve := func(v uint64) error {
		if v >= uint64(len(d.stopNames)) {
			return fmt.Errorf("stop id %d not defined", v)
		}
		stops = append(stops, d.stopNames[v])
		return nil
	}
	err := walk(f.bytes, func(f field) error {
		switch f.num {
		case 1:
			if err := f.expect(protowire.BytesType); err != nil {
				return err
			}
			name, hasName = string(f.bytes), true
		case 2:
			if err := f.expect(protowire.VarintType); err != nil {
				return err
			}
			roundTrip = protowire.DecodeBool(f.varint)
		case 3:
			// packed, with unpacked entries accepted as protobuf readers do
			if f.typ == protowire.VarintType {
				return resolve(f.varint)
			}
			if err := f.expect(protowire.BytesType); err != nil {
				return err
			}
			for b := f.bytes; len(b) > 0; {
				v, n := protowire.ConsumeVarint(b)
				if n < 0 {
					return fmt.Errorf("stop ids: %w", protowire.ParseError(n))
				}
				if err := resolve(v); err != nil {
					return err
				}
				b = b[n:]
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("route %q: %w", name, err)
	}
	if !hasName {
		return errors.New("route: missing name")
	}
	return d.loader.AddRoute(name, stops, roundTrip)
}

func (d *decoder) routingSettings(f field) error {
	if err := f.expect(protowire.BytesType); err != nil {
		return err
	}
	var s catalogue.RoutingSettings
	err := walk(f.bytes, func(f field) (err error) {
		switch f.num {
		case 1:
			s.WaitTimeMinutes, err = f.asUint32()
		case 2:
			s.BusVelocityKMH, err = f.asUint32()
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("routing settings: %w", err)
	}
	return d.loader.SetRoutingSettings(s)
}
