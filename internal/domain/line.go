package domain

import "time"

// Line — линия аниматора на конкретную дату. Ресурс, на который
// назначаются бронирования; линии создаются на каждую дату отдельно.
type Line struct {
	Date   time.Time
	LineID string
	Name   string
	Color  string
}

// DefaultLine описание дефолтной линии для автоматического создания
type DefaultLine struct {
	IDPrefix string
	Name     string
	Color    string
}

// DefaultLines дефолтный набор линий: создается для даты, у которой
// еще нет ни одной линии
var DefaultLines = []DefaultLine{
	{IDPrefix: "line1_", Name: "Аніматор 1", Color: "#4CAF50"},
	{IDPrefix: "line2_", Name: "Аніматор 2", Color: "#2196F3"},
}
