// meta/meta.go
package meta

import "time"

// GO_ROUTINES is the default worker count of a heuristic strategy.
const GO_ROUTINES = 4

// MAX_TURNS bounds a match. A standard game never needs more than 60 moves.
const MAX_TURNS = 500

// STRATEGY_TIMEOUT is the default time a strategy gets for one move.
const STRATEGY_TIMEOUT = 5 * time.Second

// GAMES_PER_PAIRING is the default tournament length per pair of strategies.
const GAMES_PER_PAIRING = 10

// SERVER_ADDR is where the session server listens by default.
const SERVER_ADDR = ":8080"

// AGENT_ADDR is where a strategy agent listens by default.
const AGENT_ADDR = ":8081"

// SESSION_FILE is the default path of the persisted session.
const SESSION_FILE = "data/game_state.json"

// OUTPUT_DIR is the default root of experiment results.
const OUTPUT_DIR = "results"
