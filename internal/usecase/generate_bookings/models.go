package generate_bookings

import "github.com/m04kA/PARK-RecurringService/internal/domain"

// SkipInfo причина пропуска конкретной даты
type SkipInfo struct {
	Date    string            `json:"date"`
	Reason  domain.SkipReason `json:"reason"`
	Details string            `json:"details,omitempty"`
}

// Warning не блокирующее замечание по созданному бронированию
type Warning struct {
	Date    string `json:"date"`
	Reason  string `json:"reason"`
	Details string `json:"details,omitempty"`
}

// Result итог генерации по одному шаблону
type Result struct {
	TemplateID   int64      `json:"templateId"`
	TemplateName string     `json:"templateName,omitempty"`
	Created      int        `json:"created"`
	Existing     int        `json:"existing"`
	Skipped      int        `json:"skipped"`
	Conflicts    []SkipInfo `json:"conflicts,omitempty"`
	Warnings     []Warning  `json:"warnings,omitempty"`
}
