package automation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/m04kA/PARK-RecurringService/internal/domain"
	"github.com/m04kA/PARK-RecurringService/pkg/ptr"
)

// Service интерпретатор правил автоматизации. Правила хранятся в БД,
// движок исполняет их действия на события бронирований.
// Ошибки отдельных правил логируются и не прерывают обработку остальных.
type Service struct {
	ruleRepo    RuleRepository
	taskRepo    TaskRepository
	historyRepo HistoryRepository
	telegram    TelegramClient
	logger      Logger
}

// NewService создает новый экземпляр сервиса автоматизации.
// telegram может быть nil, тогда действия telegram_group пропускаются.
func NewService(ruleRepo RuleRepository, taskRepo TaskRepository, historyRepo HistoryRepository, telegram TelegramClient, logger Logger) *Service {
	return &Service{
		ruleRepo:    ruleRepo,
		taskRepo:    taskRepo,
		historyRepo: historyRepo,
		telegram:    telegram,
		logger:      logger,
	}
}

// OnBookingCreated исполняет правила на создание бронирования.
// Бронирования, созданные сразу в подтвержденном статусе, дополнительно
// проходят правила триггера подтверждения.
func (s *Service) OnBookingCreated(ctx context.Context, b *domain.Booking) {
	s.run(ctx, domain.TriggerBookingCreate, b)
	if b.Status != domain.StatusPreliminary {
		s.run(ctx, domain.TriggerBookingConfirm, b)
	}
}

func (s *Service) run(ctx context.Context, trigger domain.TriggerType, b *domain.Booking) {
	rules, err := s.ruleRepo.ListActive(ctx, trigger)
	if err != nil {
		s.logger.Error("automation: failed to load rules for trigger=%s: %v", trigger, err)
		return
	}

	for _, rule := range rules {
		if !rule.Condition.Matches(b) {
			continue
		}

		s.logger.Info("automation: rule=%q matched booking=%s", rule.Name, b.ID)
		for _, action := range rule.Actions {
			if err := s.execute(ctx, &rule, action, b); err != nil {
				s.logger.Error("automation: rule=%q action=%s failed for booking=%s: %v",
					rule.Name, action.Type, b.ID, err)
			}
		}

		data := map[string]any{
			"rule_id":    rule.ID,
			"rule_name":  rule.Name,
			"booking_id": b.ID,
			"trigger":    string(trigger),
		}
		if err := s.historyRepo.Create(ctx, "automation_triggered", domain.SystemUser, data); err != nil {
			s.logger.Error("automation: rule=%q failed to write history for booking=%s: %v",
				rule.Name, b.ID, err)
		}
	}
}

// execute диспетчеризует действие по явной таблице типов
func (s *Service) execute(ctx context.Context, rule *domain.AutomationRule, action domain.Action, b *domain.Booking) error {
	switch action.Type {
	case domain.ActionCreateTask:
		return s.createTask(ctx, rule, action, b)
	case domain.ActionTelegramGroup:
		return s.notifyGroup(ctx, action, b)
	default:
		return fmt.Errorf("unknown action type %q", action.Type)
	}
}

func (s *Service) createTask(ctx context.Context, rule *domain.AutomationRule, action domain.Action, b *domain.Booking) error {
	taskDate := b.Date.AddDate(0, 0, -rule.DaysBefore)

	task := &domain.Task{
		Title:     s.interpolate(action.Title, b),
		Date:      taskDate,
		Status:    domain.TaskStatusTodo,
		Priority:  action.Priority,
		Category:  action.Category,
		CreatedBy: domain.SystemUser,
		Type:      "automation",
	}

	id, err := s.taskRepo.Create(ctx, task)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	s.logger.Info("automation: task=%d created for booking=%s on %s",
		id, b.ID, taskDate.Format(domain.DateFormat))
	return nil
}

func (s *Service) notifyGroup(ctx context.Context, action domain.Action, b *domain.Booking) error {
	if s.telegram == nil {
		s.logger.Warn("automation: telegram is not configured, skipping group notification for booking=%s", b.ID)
		return nil
	}

	text := s.interpolate(action.Template, b)
	if err := s.telegram.SendMessage(ctx, text); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	s.logger.Info("automation: group notified for booking=%s", b.ID)
	return nil
}

// interpolate подставляет атрибуты бронирования в плейсхолдеры шаблона
func (s *Service) interpolate(template string, b *domain.Booking) string {
	kidsCount := ""
	if b.KidsCount != nil {
		kidsCount = strconv.Itoa(*b.KidsCount)
	}

	replacer := strings.NewReplacer(
		"{booking_id}", b.ID,
		"{program_name}", b.DisplayName(),
		"{date}", b.Date.Format(domain.DateFormat),
		"{time}", string(b.Time),
		"{room}", ptr.Deref(b.Room),
		"{group_name}", ptr.Deref(b.GroupName),
		"{kids_count}", kidsCount,
		"{pinata_filler}", ptr.Deref(b.PinataFiller),
		"{line}", b.LineID,
		"{hosts}", strconv.Itoa(b.Hosts),
	)

	return replacer.Replace(template)
}
