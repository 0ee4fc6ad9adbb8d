package checkout

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Outcome 提交结果
type Outcome string

const (
	OutcomeSuccess        Outcome = "SUCCESS"
	OutcomePartialSuccess Outcome = "PARTIAL_SUCCESS" // 订单已下，确认邮件失败
	OutcomeFailure        Outcome = "FAILURE"
)

// Result 每次 Submit 调用一个结果
type Result struct {
	Outcome    Outcome         `json:"outcome"`
	OrderID    string          `json:"order_id,omitempty"`
	EmailSent  *bool           `json:"email_sent,omitempty"`
	EmailError string          `json:"email_error,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Message    string          `json:"message,omitempty"`
	Warnings   []string        `json:"warnings,omitempty"`
	Err        error           `json:"-"`
}

// Placed 成功或部分成功
func (r Result) Placed() bool {
	return r.Outcome == OutcomeSuccess || r.Outcome == OutcomePartialSuccess
}

// Confirmation 从 2xx 订单响应中读取的字段
type Confirmation struct {
	OrderID    string
	EmailSent  *bool
	EmailError string
}

// ParseConfirmation 读取 orderId/order_id（字符串或数字）及邮件发送标志
// 无法识别的结构返回空确认
func ParseConfirmation(payload []byte) Confirmation {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(payload, &body); err != nil {
		return Confirmation{}
	}

	var c Confirmation
	for _, key := range []string{"orderId", "order_id", "orderID", "id"} {
		if raw, ok := body[key]; ok {
			if id := idString(raw); id != "" {
				c.OrderID = id
				break
			}
		}
	}
	if raw, ok := body["emailSent"]; ok {
		var sent bool
		if json.Unmarshal(raw, &sent) == nil {
			c.EmailSent = &sent
		}
	}
	if raw, ok := body["emailError"]; ok {
		var msg string
		if json.Unmarshal(raw, &msg) == nil {
			c.EmailError = strings.TrimSpace(msg)
		}
	}
	return c
}

// Outcome 邮件发送报告失败时为 PartialSuccess
func (c Confirmation) Outcome() Outcome {
	if (c.EmailSent != nil && !*c.EmailSent) || c.EmailError != "" {
		return OutcomePartialSuccess
	}
	return OutcomeSuccess
}

func idString(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		if i, err := n.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return n.String()
	}
	return ""
}
