package libs

import (
	"errors"
	"fmt"
	"html"

	"food-delivery/models"

	"gopkg.in/gomail.v2"
)

var ErrMailerNotConfigured = errors.New("SMTP configuration missing")

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(host string, port int, user, pass, from string) (*Mailer, error) {
	if host == "" || user == "" || pass == "" {
		return nil, ErrMailerNotConfigured
	}
	if from == "" {
		from = user
	}

	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}, nil
}

func (m *Mailer) SendOrderConfirmation(toEmail string, order *models.Order) error {
	msg := orderConfirmationMessage(m.from, toEmail, order)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func orderConfirmationMessage(from, to string, order *models.Order) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Order Confirmation #%d", order.ID))

	rows := ""
	for _, item := range order.Items {
		rows += fmt.Sprintf("<tr><td>#%d</td><td>%d</td><td>%s</td></tr>",
			item.MenuItemID, item.Quantity, item.Price.StringFixed(2))
	}

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px;">
        <h2 style="color: #333;">Order Confirmation</h2>
        <p>Thank you for your order!</p>
        <p><strong>Order Number:</strong> %d</p>
        <p><strong>Delivery Address:</strong> %s</p>
        <table style="width: 100%%; border-collapse: collapse;">
            <tr><th align="left">Item</th><th align="left">Qty</th><th align="left">Price</th></tr>
            %s
        </table>
        <p><strong>Total Amount:</strong> %s</p>
        <p style="color: #666; font-size: 12px;">This is an automated email. Please do not reply.</p>
    </div>
</body>
</html>
`, order.ID, html.EscapeString(order.DeliveryAddress), rows, order.TotalAmount.StringFixed(2))

	msg.SetBody("text/html", body)
	return msg
}
