package codec

import (
	"encoding/json"
	"fmt"
	"strconv"

	"fibremap/internal/domain"
)

// rawDocument is the loosely-typed shape shared by every document encoding.
// Each sequence element is a mapping of named fields.
type rawDocument struct {
	SpliceClosures []any `json:"splice_closures" yaml:"splice_closures"`
	FeederCables   []any `json:"feeder_cables" yaml:"feeder_cables"`
	OpticalTaps    []any `json:"optical_tap" yaml:"optical_tap"`
	FibreCables    []any `json:"fibre_cables" yaml:"fibre_cables"`
}

// toTopology converts raw records into typed ones. Missing sequences and
// fields default to empty values; elements that are not mappings are skipped.
func (d *rawDocument) toTopology() *domain.Topology {
	topo := domain.NewTopology()

	for _, fields := range mappings(d.SpliceClosures) {
		topo.SpliceClosures = append(topo.SpliceClosures, domain.Closure{
			Label:      fields["label"],
			EncType:    fields["enc_type"],
			OLTName:    fields["olt_name"],
			Attributes: fields,
		})
	}

	for _, fields := range mappings(d.FeederCables) {
		topo.FeederCables = append(topo.FeederCables, domain.FeederCable{
			From:       fields["from"],
			To:         fields["to"],
			Label:      fields["label"],
			Attributes: fields,
		})
	}

	for _, fields := range mappings(d.OpticalTaps) {
		topo.OpticalTaps = append(topo.OpticalTaps, domain.OpticalTap{
			Label:      fields["label"],
			Attributes: fields,
		})
	}

	for _, fields := range mappings(d.FibreCables) {
		topo.FibreCables = append(topo.FibreCables, domain.FibreCable{
			From:       fields["from"],
			To:         fields["to"],
			Label:      fields["label"],
			Attributes: fields,
		})
	}

	return topo
}

// mappings flattens each mapping element into string fields
func mappings(elems []any) []map[string]string {
	out := make([]map[string]string, 0, len(elems))
	for _, elem := range elems {
		var fields map[string]string
		switch m := elem.(type) {
		case map[string]any:
			fields = make(map[string]string, len(m))
			for k, v := range m {
				fields[k] = stringify(v)
			}
		case map[any]any:
			fields = make(map[string]string, len(m))
			for k, v := range m {
				fields[fmt.Sprint(k)] = stringify(v)
			}
		default:
			continue
		}
		out = append(out, fields)
	}
	return out
}

// stringify renders a scalar field for display. Nested values are kept as
// compact JSON.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case int, int64, uint64, float64:
		return fmt.Sprint(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}
