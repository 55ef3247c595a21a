package configuration

type JournalConfig struct {
	Enabled bool `json:"enabled"`
	// number of tuner events buffered before new ones are dropped
	BufferSize int `json:"bufferSize"`
}
