package rabbitmq

// NotificationsExchange — exchange для событий почтовых уведомлений.
const NotificationsExchange = "notifications"

// Очереди и ключи маршрутизации уведомлений.
const (
	NoticesQueue      = "notices_queue"
	NoticesRoutingKey = "notices"
)

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает конфигурацию очередей уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: NoticesQueue, RoutingKey: NoticesRoutingKey},
	}
}
