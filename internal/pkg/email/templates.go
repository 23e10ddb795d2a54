// internal/pkg/email/templates.go
package email

// Templates are compiled in so a deploy cannot ship without them

const orderConfirmationTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Order Confirmation</title>
</head>
<body style="font-family: Georgia, serif; margin: 0; padding: 20px; background-color: #faf6f0;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 32px; border-radius: 8px;">
        <h1 style="color: #3d2f23; font-size: 24px;">{{.SiteName}}</h1>
        <p>Thank you for your order!</p>
        <p>Your order <strong>{{.OrderNumber}}</strong> placed on {{.OrderDate}} has been confirmed and is being prepared.</p>
        <table style="width: 100%; border-collapse: collapse; margin: 24px 0;">
            {{range .Items}}
            <tr style="border-bottom: 1px solid #e8e0d4;">
                <td style="padding: 8px 0;">{{.Name}}{{if gt .Quantity 1}} &times; {{.Quantity}}{{end}}</td>
                <td style="padding: 8px 0; text-align: right;">{{.Amount}}</td>
            </tr>
            {{end}}
            <tr style="border-bottom: 1px solid #e8e0d4;">
                <td style="padding: 8px 0;">Shipping</td>
                <td style="padding: 8px 0; text-align: right;">{{.ShippingAmount}}</td>
            </tr>
            <tr>
                <td style="padding: 8px 0;"><strong>Total</strong></td>
                <td style="padding: 8px 0; text-align: right;"><strong>{{.Total}}</strong></td>
            </tr>
        </table>
        {{if .Address}}
        <h3 style="color: #3d2f23; font-size: 16px; margin-bottom: 4px;">Shipping to</h3>
        <p style="margin-top: 0;">
            {{.Address.Name}}<br>
            {{.Address.Line1}}<br>
            {{if .Address.Line2}}{{.Address.Line2}}<br>{{end}}
            {{.Address.City}}{{if .Address.State}}, {{.Address.State}}{{end}} {{.Address.PostalCode}}<br>
            {{.Address.Country}}
        </p>
        {{end}}
        <p>We'll send tracking details once your order ships.</p>
        <p>Happy baking,<br>The {{.SiteName}} Team</p>
        <hr style="border: none; border-top: 1px solid #e8e0d4;">
        <p style="font-size: 12px; color: #8a7d6b;">
            &copy; {{.Year}} {{.SiteName}}. All rights reserved.
        </p>
    </div>
</body>
</html>`

const adminNotificationTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Order</title>
</head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px;">
    <div style="max-width: 600px; margin: 0 auto;">
        <h2>New order {{.OrderNumber}}</h2>
        <ul>
            <li>Product: {{.ProductName}}{{if gt .Quantity 1}} &times; {{.Quantity}}{{end}}</li>
            <li>Total: {{.Total}}</li>
            <li>Customer: {{.PayerEmail}}</li>
        </ul>
    </div>
</body>
</html>`
