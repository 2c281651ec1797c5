package view

import (
	"homework-wall/biz/infrastructure/util/log"
)

type EventType string

var (
	EventSnapshot     EventType = "snapshot"
	EventReloaded     EventType = "reloaded"
	EventInserted     EventType = "inserted"
	EventPatched      EventType = "patched"
	EventRemoved      EventType = "removed"
	EventScreen       EventType = "screen"
	EventAdmin        EventType = "admin"
	EventNotification EventType = "notification"
	EventDismissed    EventType = "dismissed"
)

type Event struct {
	Type    EventType `json:"type"`              // 事件类型
	Message string    `json:"message,omitempty"` // 文本消息
	Data    any       `json:"data,omitempty"`    // 数据内容
}

// sendEvent 非阻塞投递，订阅方消费不过来时丢弃
func sendEvent(ch chan<- Event, evt Event) {
	select {
	case ch <- evt:
	default:
		log.Error("视图事件通道已满，跳过事件: %s", evt.Type)
	}
}
