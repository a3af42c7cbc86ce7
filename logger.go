package siteflow

// A Logger is used for all siteflow logging
type Logger interface {
	Log(msg string)
	Error(err error, msg string)
}
