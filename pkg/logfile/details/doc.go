// Package details defines the value types attached to log events.
//
// Details are plain data holders. Each type implements fmt.Stringer so sinks
// can render an event without knowing every detail type:
//
//	Message     printf-style text with captured arguments
//	Arguments   positional or named values
//	Error       an error value attached to the event
//	Binary      raw bytes, rendered by size only
//	Hierarchy   proxy names stamped by cloned logfiles
//	Sensitive   begin/end markers for data that sinks must encrypt
//
// Sensitive spans are encrypted through a SensitiveSettings capability. The
// only built-in variant is Aes256Settings.
package details
