package save

// MapMeta carries the small set of map/default.map fields the renderer
// consumes: lake and sea province ids, painted with fixed blues instead
// of any country's political colour (spec.md §4.8, §6).
type MapMeta struct {
	Lakes     []int
	SeaStarts []int

	// Debug holds the raw parsed map/default.map tree, populated only
	// when gamedata.LoadConfig.Debug is set.
	Debug *ParsedValue
}
