package server

type Config struct {
	// ListenAddr is the HTTP listen address for the API server.
	ListenAddr string

	// HistoryLimit caps how many stored assessments the list endpoint
	// returns by default. 0 means no limit.
	HistoryLimit int
}

func DefaultConfig() Config {
	return Config{
		ListenAddr:   ":8000",
		HistoryLimit: 50,
	}
}
