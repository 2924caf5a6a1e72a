package model

// TriggerType indicates what started a backtest run.
type TriggerType string

const (
	TriggerCLI       TriggerType = "CLI"
	TriggerScheduled TriggerType = "SCHEDULED"
	TriggerStartup   TriggerType = "STARTUP"
	TriggerManual    TriggerType = "MANUAL"
)
