package store

import "time"

// Operation names reported to Metrics and used as span names.
const (
	opEnsureSchema    = "ensure_schema"
	opGet             = "get"
	opSet             = "set"
	opDelete          = "delete"
	opClear           = "clear"
	opList            = "list"
	opGetModuleStatus = "get_module_status"
	opSetModuleStatus = "set_module_status"
	opGetModule       = "get_module"
	opGetAllModules   = "get_all_modules"
	opSetModule       = "set_module"
	opSetAllModules   = "set_all_modules"
	opRemoveModule    = "remove_module"
)

// Metrics receives store instrumentation.
//
// Implementations must be safe for concurrent use. A nil Metrics is valid
// and disables collection.
type Metrics interface {
	// ObserveOperation records one store operation with its duration and
	// outcome.
	ObserveOperation(operation string, duration time.Duration, err error)

	// RecordSchemaRecovery counts reads that found the config table missing
	// and recreated the schema.
	RecordSchemaRecovery()
}
