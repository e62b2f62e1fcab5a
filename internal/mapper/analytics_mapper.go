package mapper

import (
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/model"
)

type AnalyticsMapper struct{}

func NewAnalyticsMapper() *AnalyticsMapper {
	return &AnalyticsMapper{}
}

func (m *AnalyticsMapper) ToEntity(e *model.AnalyticsEvent) *entity.AnalyticsEvent {
	if e == nil {
		return nil
	}

	return &entity.AnalyticsEvent{
		Id:            e.Id,
		UserId:        e.UserId,
		EventType:     e.EventType,
		EventCategory: e.EventCategory,
		Payload:       jsonToMap(e.Payload),
		CreatedAt:     e.CreatedAt,
	}
}

func (m *AnalyticsMapper) ToModel(e *entity.AnalyticsEvent) *model.AnalyticsEvent {
	if e == nil {
		return nil
	}

	return &model.AnalyticsEvent{
		Id:            e.Id,
		UserId:        e.UserId,
		EventType:     e.EventType,
		EventCategory: e.EventCategory,
		Payload:       mapToJSON(e.Payload),
		CreatedAt:     e.CreatedAt,
	}
}
