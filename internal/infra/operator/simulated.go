// Package operator performs sub-task operations against the registry.
package operator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/runoshun/yard-dispatch/internal/domain"
)

// ErrInjectedFault is returned for sub-tasks listed in FailOn.
var ErrInjectedFault = errors.New("injected fault")

// Simulated implements domain.Operator by applying the physical effect of
// each step directly to the registry after a fixed delay.
// Fields are ordered to minimize memory padding.
type Simulated struct {
	registry domain.Registry
	logger   domain.Logger
	sleep    func(time.Duration)
	failOn   map[string]bool // sub-task types or IDs that fail
	delay    time.Duration
}

// Ensure Simulated implements domain.Operator interface.
var _ domain.Operator = (*Simulated)(nil)

// NewSimulated creates a simulated operator.
// failOn lists sub-task types (e.g. "product_unloading") or sub-task IDs to fail.
func NewSimulated(registry domain.Registry, logger domain.Logger, delay time.Duration, failOn []string) *Simulated {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	set := make(map[string]bool, len(failOn))
	for _, f := range failOn {
		if f = strings.TrimSpace(f); f != "" {
			set[f] = true
		}
	}
	return &Simulated{
		registry: registry,
		logger:   logger,
		sleep:    time.Sleep,
		failOn:   set,
		delay:    delay,
	}
}

// FailOn returns the configured fault list, sorted.
func (o *Simulated) FailOn() []string {
	out := make([]string, 0, len(o.failOn))
	for f := range o.failOn {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Perform runs one sub-task. The delay is not interrupted by ctx;
// cancellation is observed between sub-tasks by the caller.
func (o *Simulated) Perform(_ context.Context, task *domain.Task, sub *domain.SubTask) error {
	if o.delay > 0 {
		o.sleep(o.delay)
	}
	if o.failOn[string(sub.Type)] || o.failOn[sub.ID] {
		return fmt.Errorf("%s: %w", sub.ID, ErrInjectedFault)
	}

	var err error
	switch sub.Type {
	case domain.SubTaskFramePulling:
		err = o.pull(sub)
	case domain.SubTaskTransport:
		err = o.transport(sub)
	case domain.SubTaskTerminalLoading:
		err = o.load(task, sub)
	case domain.SubTaskProductUnloading:
		err = o.unload(sub)
	case domain.SubTaskFramePositioning:
		err = o.position(sub)
	default:
		err = fmt.Errorf("unsupported sub-task type %q", sub.Type)
	}
	if err != nil {
		return err
	}

	o.logger.Debug(task.ID, "operator", fmt.Sprintf("%s done", sub.ID))
	return nil
}

// carriage returns the truck and frame bound to the sub-task, if any.
func (o *Simulated) carriage(sub *domain.SubTask) (*domain.FrameTruck, *domain.Frame, error) {
	var truck *domain.FrameTruck
	var frame *domain.Frame
	if id, ok := sub.Resources[domain.RoleFrameTruck]; ok {
		t, found := o.registry.Truck(id)
		if !found {
			return nil, nil, fmt.Errorf("truck %s: %w", id, domain.ErrUnknownEquipment)
		}
		truck = t
	}
	if id, ok := sub.Resources[domain.RoleFrame]; ok {
		f, found := o.registry.Frame(id)
		if !found {
			return nil, nil, fmt.Errorf("frame %s: %w", id, domain.ErrUnknownEquipment)
		}
		frame = f
	}
	return truck, frame, nil
}

func (o *Simulated) warehouse(sub *domain.SubTask) (*domain.Warehouse, error) {
	w, ok := o.registry.Warehouse(sub.WarehouseID)
	if !ok {
		return nil, fmt.Errorf("warehouse %s: %w", sub.WarehouseID, domain.ErrUnknownWarehouse)
	}
	return w, nil
}

// pull drives the truck to the frame and couples them.
func (o *Simulated) pull(sub *domain.SubTask) error {
	truck, frame, err := o.carriage(sub)
	if err != nil {
		return err
	}
	if truck == nil || frame == nil {
		return fmt.Errorf("%s: pulling needs a truck and a frame", sub.ID)
	}
	if sub.TargetPosition != nil {
		truck.MoveTo(*sub.TargetPosition)
	}
	truck.Attach(frame.ID)
	return nil
}

// transport moves the coupled truck and frame. Legs without carriage
// equipment have nothing to move.
func (o *Simulated) transport(sub *domain.SubTask) error {
	truck, frame, err := o.carriage(sub)
	if err != nil {
		return err
	}
	if sub.TargetPosition == nil {
		return nil
	}
	if truck != nil {
		truck.MoveTo(*sub.TargetPosition)
	}
	if frame != nil {
		frame.MoveTo(*sub.TargetPosition)
	}
	return nil
}

// load takes the products out of stock and onto the frame.
// Shipments draw on every terminal warehouse; transfers on the sub-task's warehouse only.
func (o *Simulated) load(task *domain.Task, sub *domain.SubTask) error {
	_, frame, err := o.carriage(sub)
	if err != nil {
		return err
	}

	if task.Type == domain.TaskShipTransport {
		if _, err := o.registry.Withdraw(domain.WarehouseTerminal, sub.Products); err != nil {
			return err
		}
	} else {
		w, err := o.warehouse(sub)
		if err != nil {
			return err
		}
		if _, err := domain.Withdraw([]*domain.Warehouse{w}, sub.Products); err != nil {
			return err
		}
	}

	if frame != nil {
		frame.LoadProducts(sub.Products)
	}
	return nil
}

// unload stocks the target warehouse and empties the frame.
func (o *Simulated) unload(sub *domain.SubTask) error {
	_, frame, err := o.carriage(sub)
	if err != nil {
		return err
	}
	w, err := o.warehouse(sub)
	if err != nil {
		return err
	}
	if err := w.Deposit(sub.Products); err != nil {
		return err
	}
	if frame != nil {
		frame.UnloadProducts()
	}
	return nil
}

// position parks the frame and uncouples the truck.
func (o *Simulated) position(sub *domain.SubTask) error {
	truck, frame, err := o.carriage(sub)
	if err != nil {
		return err
	}
	if sub.TargetPosition != nil {
		if frame != nil {
			frame.MoveTo(*sub.TargetPosition)
		}
		if truck != nil {
			truck.MoveTo(*sub.TargetPosition)
		}
	}
	if truck != nil {
		truck.Detach()
	}
	return nil
}
