package config

import (
	"fmt"
)

type QueueConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	// Url is the AMQP host:port without the protocol prefix.
	Url      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

func (cfg *QueueConfig) Validate() error {
	if cfg.Username == "" {
		return fmt.Errorf("queue username is required")
	}
	if cfg.Password == "" {
		return fmt.Errorf("queue password is required")
	}
	if cfg.Url == "" {
		return fmt.Errorf("queue url is required")
	}
	if cfg.Exchange == "" {
		return fmt.Errorf("queue exchange is required")
	}

	return nil
}

func (cfg *QueueConfig) AmqpURI() string {
	return fmt.Sprintf("amqp://%s:%s@%s/", cfg.Username, cfg.Password, cfg.Url)
}
