package constants

// Thinking budgets, keyed by the inbound reasoning_effort values. An absent
// reasoning_effort leaves the thinking configuration unset entirely, which is
// distinct from "none".
var ThinkingBudgets = map[string]int32{
	"none":   0,
	"low":    1000,
	"medium": 8000,
	"high":   24000,
}

// Response modalities recognized on the inbound request; anything else is
// discarded with a warning.
var RecognizedModalities = map[string]bool{
	"TEXT":  true,
	"IMAGE": true,
}
