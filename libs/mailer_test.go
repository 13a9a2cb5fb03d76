package libs

import (
	"bytes"
	"testing"

	"food-delivery/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailerRequiresCredentials(t *testing.T) {
	_, err := NewMailer("", 587, "user", "pass", "")
	assert.ErrorIs(t, err, ErrMailerNotConfigured)

	m, err := NewMailer("smtp.example.com", 587, "orders@example.com", "pass", "")
	require.NoError(t, err)
	assert.Equal(t, "orders@example.com", m.from)
}

func TestOrderConfirmationMessage(t *testing.T) {
	order := &models.Order{
		ID:              12,
		DeliveryAddress: "<script>alert(1)</script>",
		TotalAmount:     decimal.RequireFromString("15"),
		Items: []models.OrderItem{
			{MenuItemID: 3, Quantity: 2, Price: decimal.RequireFromString("5.5")},
		},
	}

	msg := orderConfirmationMessage("shop@example.com", "ana@example.com", order)
	assert.Equal(t, []string{"Order Confirmation #12"}, msg.GetHeader("Subject"))
	assert.Equal(t, []string{"ana@example.com"}, msg.GetHeader("To"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "15.00")
}
