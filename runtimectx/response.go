package runtimectx

import "github.com/arolang/aro-sub008/value"

// Response is the terminal status/reason/data triple produced by Return
// and consumed by the embedding caller (§3, §6).
type Response struct {
	Status string
	Reason string
	Data   map[string]value.Value
}
