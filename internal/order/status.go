package order

// Status is the order lifecycle state. Orders start in PENDING_PAYMENT and
// only ever change through the transition table below.
type Status string

const (
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusPaid           Status = "PAID"
	StatusConfirmed      Status = "CONFIRMED"
	StatusCooking        Status = "COOKING"
	StatusReady          Status = "READY"
	StatusCompleted      Status = "COMPLETED"
	StatusRejected       Status = "REJECTED"
	StatusCancelled      Status = "CANCELLED"
)

// allowedTransitions is the authoritative from -> {to} table. COMPLETED,
// REJECTED and CANCELLED are terminal.
var allowedTransitions = map[Status][]Status{
	StatusPendingPayment: {StatusPaid, StatusCancelled},
	StatusPaid:           {StatusConfirmed, StatusRejected, StatusCancelled},
	StatusConfirmed:      {StatusCooking, StatusCancelled},
	StatusCooking:        {StatusReady},
	StatusReady:          {StatusCompleted},
	StatusCompleted:      {},
	StatusRejected:       {},
	StatusCancelled:      {},
}

// merchantTargets are the statuses a merchant actor may drive an order to.
// PAID is reserved for the payment capture path.
var merchantTargets = map[Status]bool{
	StatusConfirmed: true,
	StatusCooking:   true,
	StatusReady:     true,
	StatusCompleted: true,
	StatusRejected:  true,
	StatusCancelled: true,
}

// customerCancellable are the only source states a customer may cancel from.
// CONFIRMED -> CANCELLED exists in the table but is merchant-only.
var customerCancellable = map[Status]bool{
	StatusPendingPayment: true,
	StatusPaid:           true,
}

func CanTransition(from, to Status) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

func IsMerchantTarget(to Status) bool { return merchantTargets[to] }

func IsCustomerCancellable(from Status) bool { return customerCancellable[from] }

func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	_, ok := allowedTransitions[st]
	return st, ok
}
