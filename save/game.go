// This file holds Game, the top-level struct binding the static game
// data together — the analogue of the teacher's rep.Replay binding a
// parsed replay's Header/Commands/MapData. The actual loading
// orchestration (reading files, building history, constructing a
// renderer) lives one layer up, in cmd/eu4histview and in whatever
// external shell embeds this module, since it has to coordinate across
// gamedata/history/render/provindex, all of which import this package;
// Game itself only holds already-loaded static data together.
package save

// Game is the static, save-independent state a viewer loads once:
// the province and country tables and the map metadata.
type Game struct {
	Provinces map[int]*Province
	Countries map[string]*Country
	MapMeta   MapMeta
}
