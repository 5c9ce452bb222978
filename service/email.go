package service

import (
	"fmt"
	"strings"

	"familyfinance/config"
	"familyfinance/models"

	"gopkg.in/gomail.v2"
)

// EmailService 邮件服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Send 发送 HTML 邮件
func (s *EmailService) Send(to []string, subject, body string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用，请配置 FINANCE_EMAIL_ENABLED=true")
	}
	if len(to) == 0 {
		return fmt.Errorf("收件人为空")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	return nil
}

// budgetAlertSubject 超支提醒邮件标题
func budgetAlertSubject(b models.Budget, c models.BudgetCategory) string {
	return fmt.Sprintf("【家庭记账】%s 预算提醒：%s", b.Period(), c.Category)
}

// generateBudgetAlertBody 生成超支提醒邮件内容
func generateBudgetAlertBody(b models.Budget, c models.BudgetCategory, e models.Expense) string {
	v := c.View()
	label := c.Category
	var parts []string
	if c.Type != nil {
		parts = append(parts, *c.Type)
	}
	if c.SubCategory != nil {
		parts = append(parts, *c.SubCategory)
	}
	if len(parts) > 0 {
		label = fmt.Sprintf("%s（%s）", c.Category, strings.Join(parts, " / "))
	}

	status := "即将用完"
	color := "#f59e0b"
	if v.Remaining.IsNegative() {
		status = "已超支"
		color = "#dc2626"
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: %s; color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        table { width: 100%%; border-collapse: collapse; }
        td { padding: 8px 0; border-bottom: 1px solid #eee; color: #333; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>💰 %s 预算%s</h1>
        </div>
        <div class="content">
            <p>分类 <strong>%s</strong> 已使用 <strong>%d%%</strong> 的预算。</p>
            <table>
                <tr><td>预算额度</td><td>%s</td></tr>
                <tr><td>已支出</td><td>%s</td></tr>
                <tr><td>剩余</td><td>%s</td></tr>
                <tr><td>触发支出</td><td>%s %s（%s）</td></tr>
            </table>
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复</p>
        </div>
    </div>
</body>
</html>
`, color, b.Period(), status, label, v.PercentageUsed,
		c.Allocated.StringFixed(2), c.Spent.StringFixed(2), v.Remaining.StringFixed(2),
		e.Date.Format(models.DateLayout), e.Amount.StringFixed(2), e.Description)
}
