package update_payment_status

import "github.com/m04kA/SMC-GroundBooking/internal/service/bookings/models"

// UpdatePaymentStatusRequest HTTP request model
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required,oneof=pending submitted verified rejected"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdatePaymentStatusRequest) ToServiceRequest() *models.UpdatePaymentStatusRequest {
	return &models.UpdatePaymentStatusRequest{PaymentStatus: r.PaymentStatus}
}
