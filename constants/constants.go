package constants

import "os"

// GetRulesPath returns the rules file to load, or "" for the default rules.
func GetRulesPath() string {
	return os.Getenv("HARMONET_RULES_PATH")
}

func GetListenAddr() string {
	addr := os.Getenv("HARMONET_LISTEN_ADDR")
	if addr != "" {
		return addr
	}
	return ":8080"
}

func GetOutDir() string {
	path := os.Getenv("HARMONET_OUT_DIR")
	if path != "" {
		return path
	}
	return "./out"
}

const DefaultMaxPitch = "B5"

const DefaultNumParts = 4

// NOTE: enumerating more progressions than this is slow and memory hungry,
// so callers get a warning, not an error
const EnumerationWarnThreshold = 200000

// DefaultMaxAccidental bounds the sharps or flats a realized pitch may carry.
const DefaultMaxAccidental = 1
