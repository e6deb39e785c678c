package alerter

type Config struct {
	BotToken        string `envconfig:"BOT_TOKEN"`
	ChatID          int64  `envconfig:"CHAT_ID"`
	MessageThreadID *int64 `envconfig:"MESSAGE_THREAD_ID"`
	BaseURL         string `envconfig:"BASE_URL" default:"https://api.telegram.org"`
}

// IsConfigured алертер опционален
func (c *Config) IsConfigured() bool {
	return c != nil && c.BotToken != "" && c.ChatID != 0
}
