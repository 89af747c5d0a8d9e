// Package schema validates loosely typed payloads before they are decoded into domain values.
//
// Transport adapters receive snapshots as JSON or YAML maps. A Schema maps field names to
// types; Validate collects every mismatch into an *AggregateError so callers can report all
// problems at once:
//
//	data := map[string]any{"customer_count": -1, "bank_linkd": true}
//	if err := schema.Validate(schema.Snapshot(), data, schema.Strict(), schema.Partial()); err != nil {
//	    // field "bank_linkd": unknown field
//	    // field "customer_count": must be >= 0
//	}
//
// DecodeSnapshot combines validation with mapstructure decoding into domain.Snapshot.
package schema
