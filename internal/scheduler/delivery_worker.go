package scheduler

import (
	"log"
	"sync"
	"time"

	"github.com/fisker/zhr-backend/internal/model"
	"github.com/fisker/zhr-backend/internal/notification"
	"github.com/fisker/zhr-backend/pkg/config"
	"github.com/fisker/zhr-backend/pkg/distributed"
	"github.com/fisker/zhr-backend/pkg/metrics"
	"github.com/fisker/zhr-backend/pkg/redis"
)

// deliveryWorkerLockKey 每个tick的分布式租约，防止多实例重复消费同一批任务
const deliveryWorkerLockKey = "zhr:notify:delivery-worker"

// AttemptStore 投递任务读写，由 repository.DeliveryAttemptRepository 实现
type AttemptStore interface {
	DuePending(now time.Time, limit int) ([]model.NotificationDeliveryAttempt, error)
	UpdateState(a *model.NotificationDeliveryAttempt) error
	CountPending() (int64, error)
}

// NotificationStore 投递所需的通知读取与送达时间回写，由 repository.NotificationRepository 实现
type NotificationStore interface {
	FindByID(id string) (*model.Notification, error)
	StampDeliveredAt(notificationID string, t time.Time) error
}

// DeliveryWorker 通知投递重试Worker
// 定时扫描到期的待投递任务，按渠道发出，失败按指数退避重排
type DeliveryWorker struct {
	attempts      AttemptStore
	notifications NotificationStore
	senders       map[model.NotificationChannel]notification.Sender

	interval  time.Duration
	batchSize int

	stopChan chan struct{}
	wg       sync.WaitGroup
	now      func() time.Time
}

func NewDeliveryWorker(
	cfg *config.NotificationConfig,
	attempts AttemptStore,
	notifications NotificationStore,
	senders ...notification.Sender,
) *DeliveryWorker {
	interval := time.Duration(cfg.WorkerInterval) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}
	batchSize := cfg.WorkerBatchSize
	if batchSize <= 0 {
		batchSize = 25
	}

	w := &DeliveryWorker{
		attempts:      attempts,
		notifications: notifications,
		senders:       make(map[model.NotificationChannel]notification.Sender, len(senders)),
		interval:      interval,
		batchSize:     batchSize,
		stopChan:      make(chan struct{}),
		now:           time.Now,
	}
	for _, s := range senders {
		w.senders[s.Channel()] = s
	}
	return w
}

// Start 启动后台循环
func (w *DeliveryWorker) Start() {
	w.wg.Add(1)
	go w.run()
	log.Printf("[DeliveryWorker] 🔄 Started (interval=%s, batch=%d)", w.interval, w.batchSize)
}

// Stop 停止并等待当前批次处理完
func (w *DeliveryWorker) Stop() {
	close(w.stopChan)

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("[DeliveryWorker] ✅ Stopped")
	case <-time.After(10 * time.Second):
		log.Println("[DeliveryWorker] ⚠️  Timeout waiting for worker to stop")
	}
}

func (w *DeliveryWorker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick()
		case <-w.stopChan:
			return
		}
	}
}

// tick 处理一批到期任务，tick级租约保证多实例部署时只有一个实例消费
func (w *DeliveryWorker) tick() {
	lock := distributed.NewRedisLock(redis.GetClient(), deliveryWorkerLockKey, w.interval)
	acquired, err := lock.TryLock()
	if err != nil {
		log.Printf("[DeliveryWorker] ❌ Failed to acquire tick lease: %v", err)
		return
	}
	if !acquired {
		return
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Printf("[DeliveryWorker] ⚠️  Failed to release tick lease: %v", err)
		}
	}()

	now := w.now()
	batch, err := w.attempts.DuePending(now, w.batchSize)
	if err != nil {
		log.Printf("[DeliveryWorker] ❌ Failed to load pending attempts: %v", err)
		return
	}

	for i := range batch {
		w.processAttempt(&batch[i])
	}

	if pending, err := w.attempts.CountPending(); err == nil {
		metrics.PendingDeliveries.Set(float64(pending))
	}
}

// processAttempt 处理单个投递任务，每个任务的结果独立落库
func (w *DeliveryWorker) processAttempt(attempt *model.NotificationDeliveryAttempt) {
	attempt.Attempt++

	if attempt.Attempt > model.MaxDeliveryAttempts {
		attempt.Status = model.DeliveryStatusFailed
		attempt.ErrorMessage = "max retries exceeded"
		if err := w.attempts.UpdateState(attempt); err != nil {
			log.Printf("[DeliveryWorker] ❌ Failed to persist attempt %d: %v", attempt.ID, err)
			return
		}
		metrics.DeliveryAttemptsTotal.WithLabelValues(string(attempt.Channel), "exhausted").Inc()
		log.Printf("[DeliveryWorker] ❌ Attempt %d exhausted retries (notification=%s channel=%s)",
			attempt.ID, attempt.NotificationID, attempt.Channel)
		return
	}

	sendErr := w.dispatch(attempt)
	if sendErr != nil {
		attempt.Status = model.DeliveryStatusPending
		attempt.ErrorMessage = sendErr.Error()
		attempt.NextAttemptAt = w.now().Add(Backoff(attempt.Attempt))
		if err := w.attempts.UpdateState(attempt); err != nil {
			log.Printf("[DeliveryWorker] ❌ Failed to persist attempt %d: %v", attempt.ID, err)
			return
		}
		metrics.DeliveryAttemptsTotal.WithLabelValues(string(attempt.Channel), "failure").Inc()
		log.Printf("[DeliveryWorker] ⚠️  Delivery failed (notification=%s channel=%s attempt=%d): %v",
			attempt.NotificationID, attempt.Channel, attempt.Attempt, sendErr)
		return
	}

	attempt.Status = model.DeliveryStatusSent
	attempt.ErrorMessage = ""
	if err := w.attempts.UpdateState(attempt); err != nil {
		log.Printf("[DeliveryWorker] ❌ Failed to persist attempt %d: %v", attempt.ID, err)
		return
	}
	if err := w.notifications.StampDeliveredAt(attempt.NotificationID, w.now()); err != nil {
		log.Printf("[DeliveryWorker] ⚠️  Failed to stamp deliveredAt for %s: %v", attempt.NotificationID, err)
	}
	metrics.DeliveryAttemptsTotal.WithLabelValues(string(attempt.Channel), "success").Inc()
}

func (w *DeliveryWorker) dispatch(attempt *model.NotificationDeliveryAttempt) error {
	sender, ok := w.senders[attempt.Channel]
	if !ok {
		return &unknownChannelError{channel: attempt.Channel}
	}
	if attempt.Notification == nil {
		n, err := w.notifications.FindByID(attempt.NotificationID)
		if err != nil {
			return err
		}
		if n == nil {
			return &missingNotificationError{id: attempt.NotificationID}
		}
		attempt.Notification = n
	}
	return sender.Send(attempt.Notification)
}

// Backoff 第n次失败后的重试间隔：60s起倍增，封顶1小时
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := 60 * time.Second << uint(attempt-1)
	if delay > time.Hour || delay <= 0 {
		return time.Hour
	}
	return delay
}

type unknownChannelError struct {
	channel model.NotificationChannel
}

func (e *unknownChannelError) Error() string {
	return "no sender registered for channel " + string(e.channel)
}

type missingNotificationError struct {
	id string
}

func (e *missingNotificationError) Error() string {
	return "notification " + e.id + " no longer exists"
}
