package cmd

import "time"

// Config carries everything the process needs from the environment.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	AmqpURL      string
	AmqpPrefetch int

	SMTPAddr     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	ReconcileSchedule string
	StaleAfter        time.Duration
}
