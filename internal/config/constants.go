package config

// AppName is shown in logs and CLI output
const AppName = "Rollbook"

// DefaultReportExtension is used when no export format is requested
const DefaultReportExtension = "xlsx"
