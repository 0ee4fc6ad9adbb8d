/*
Package checkout 结算子域

一次结算尝试按步骤累积 Draft（地址、配送、支付、条款）。本包不做任何 I/O，
Gateway 端口由远程客户端实现。
*/
package checkout

import (
	"strings"

	"storefront/domain/shared"
)

const entity = "checkout"

// Address 收货地址
// JSON 键与后端订单载荷一致
type Address struct {
	Departamento string `json:"departamento"`
	Provincia    string `json:"provincia"`
	Distrito     string `json:"distrito"`
	Calle        string `json:"calle"`
	Numero       string `json:"numero"`
	Pais         string `json:"pais,omitempty"`
	Referencia   string `json:"referencia,omitempty"`
}

// Normalize 去除每个字段的首尾空白
func (a Address) Normalize() Address {
	return Address{
		Departamento: strings.TrimSpace(a.Departamento),
		Provincia:    strings.TrimSpace(a.Provincia),
		Distrito:     strings.TrimSpace(a.Distrito),
		Calle:        strings.TrimSpace(a.Calle),
		Numero:       strings.TrimSpace(a.Numero),
		Pais:         strings.TrimSpace(a.Pais),
		Referencia:   strings.TrimSpace(a.Referencia),
	}
}

// Validate 仅校验格式：必填字段去空白后不能为空
func (a Address) Validate() error {
	n := a.Normalize()
	required := []struct {
		field string
		value string
	}{
		{"departamento", n.Departamento},
		{"provincia", n.Provincia},
		{"distrito", n.Distrito},
		{"calle", n.Calle},
		{"numero", n.Numero},
	}
	for _, r := range required {
		if r.value == "" {
			return shared.NewValidationError(entity, r.field, "address "+r.field+" is required")
		}
	}
	return nil
}
