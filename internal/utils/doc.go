// Package utils provides small shared helpers: string truncation for log
// output and a simple elapsed-time [Timer] used to measure calls through the
// client chain.
package utils
