package domain

import "errors"

// Domain errors.
var (
	ErrPlanInvalid        = errors.New("ship plan invalid")
	ErrResourceShortage   = errors.New("insufficient idle equipment")
	ErrMissingResource    = errors.New("required warehouse or crane not found")
	ErrUnknownTask        = errors.New("task not found")
	ErrSubTaskFailure     = errors.New("sub-task failed")
	ErrDuplicateTask      = errors.New("task already exists")
	ErrTaskRunning        = errors.New("task is already running")
	ErrTaskFailed         = errors.New("task has failed and cannot be re-run")
	ErrTaskCompleted      = errors.New("task has already completed")
	ErrCancelled          = errors.New("execution cancelled")
	ErrEquipmentBusy      = errors.New("equipment is not idle")
	ErrUnknownEquipment   = errors.New("equipment not found")
	ErrUnknownWarehouse   = errors.New("warehouse not found")
	ErrUnknownProduct     = errors.New("product not found")
	ErrUnknownPlan        = errors.New("ship plan not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrCapacityExceeded   = errors.New("warehouse capacity exceeded")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrUnassignedCrane    = errors.New("crane has no warehouse")
	ErrOutsideGrid        = errors.New("position outside the yard grid")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrNotInitialized     = errors.New("yard not initialized (run 'yard init' first)")
	ErrAlreadyInitialized = errors.New("yard already initialized")
	ErrConfigExists       = errors.New("config file already exists")
	ErrUnknownStrategy    = errors.New("unknown selection strategy")
	ErrConfigNil          = errors.New("config is nil")
	ErrConfigInvalid      = errors.New("invalid config")
)
