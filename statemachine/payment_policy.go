package statemachine

import "fooddelight/models"

// PaymentStatusFor returns the payment status that goes with moving an order to
// the given status. Cash payments stay as they are on delivery; they become Paid
// only when the partner collects them. requested is honoured for cancellations
// and ignored otherwise; an empty value keeps the current status.
func PaymentStatusFor(method models.PaymentMethod, to models.OrderStatus, current, requested models.PaymentStatus) models.PaymentStatus {
	switch to {
	case models.StatusDelivered:
		if method == models.MethodCOD {
			return current
		}
		return models.PaymentPaid
	case models.StatusCancelled:
		if requested != "" {
			return requested
		}
	}
	return current
}
