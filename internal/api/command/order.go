package command

const (
	ActionMyOrders        = "myOrders"
	ActionSubmitComplete  = "submitComplete"
	ActionConfirmComplete = "confirmComplete"
)

// OrderCommand is one of the order manager commands.
type OrderCommand interface {
	Command
	orderCommand()
}

type CreateOrder struct {
	TaskID string `json:"taskId" validate:"required"`
}

type MyOrders struct{}

type SubmitComplete struct {
	TaskID string `json:"taskId" validate:"required"`
}

type ConfirmComplete struct {
	TaskID string `json:"taskId" validate:"required"`
}

func (*CreateOrder) Action() string     { return ActionCreate }
func (*MyOrders) Action() string        { return ActionMyOrders }
func (*SubmitComplete) Action() string  { return ActionSubmitComplete }
func (*ConfirmComplete) Action() string { return ActionConfirmComplete }

func (*CreateOrder) orderCommand()     {}
func (*MyOrders) orderCommand()        {}
func (*SubmitComplete) orderCommand()  {}
func (*ConfirmComplete) orderCommand() {}

var orderCommands = map[string]func() OrderCommand{
	ActionCreate:          func() OrderCommand { return &CreateOrder{} },
	ActionMyOrders:        func() OrderCommand { return &MyOrders{} },
	ActionSubmitComplete:  func() OrderCommand { return &SubmitComplete{} },
	ActionConfirmComplete: func() OrderCommand { return &ConfirmComplete{} },
}

// DecodeOrder decodes an order manager request.
func DecodeOrder(body []byte) (OrderCommand, error) {
	return decode(body, orderCommands)
}
