package task

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/utils"
	"github.com/RSAKTHISABARISH/RubyAI/src/models"
)

// cacheMaxAge is how long synthesized audio files are kept.
const cacheMaxAge = 24 * time.Hour

// Announcer speaks a reminder text to the user. The session orchestrator
// provides one while a session is live.
type Announcer func(text string)

// Manager owns the worker pool and the scheduler. It persists reminders so
// a restart does not lose them, and prunes the TTS cache periodically.
type Manager struct {
	pool      *WorkerPool
	scheduled *scheduledTasks
	db        *gorm.DB
	logger    *utils.Logger

	mu       sync.RWMutex
	announce Announcer
}

// NewManager builds the manager and registers its executors.
func NewManager(config ResourceConfig, db *gorm.DB, logger *utils.Logger) (*Manager, error) {
	m := &Manager{
		pool:   NewWorkerPool(config),
		db:     db,
		logger: logger,
	}
	m.scheduled = newScheduledTasks(m.pool)

	if db != nil {
		if err := db.AutoMigrate(&models.Reminder{}); err != nil {
			return nil, fmt.Errorf("migrate reminder table: %v", err)
		}
	}

	RegisterExecutor(TypeReminder, m.runReminder)
	RegisterExecutor(TypeCacheCleanup, m.runCacheCleanup)
	return m, nil
}

// Start launches the pool, restores persisted reminders and begins the
// scheduler.
func (m *Manager) Start(ctx context.Context) error {
	m.pool.Start()
	m.scheduled.Start()
	return m.restoreReminders(ctx)
}

// Stop halts the scheduler and the pool.
func (m *Manager) Stop() {
	m.scheduled.Stop()
	m.pool.Stop()
}

// SetAnnouncer installs the voice that delivers reminders.
func (m *Manager) SetAnnouncer(announce Announcer) {
	m.mu.Lock()
	m.announce = announce
	m.mu.Unlock()
}

type reminderParams struct {
	recordID uint
	text     string
}

// ScheduleReminder persists and schedules a spoken reminder.
func (m *Manager) ScheduleReminder(ctx context.Context, text string, fireAt time.Time) error {
	var recordID uint
	if m.db != nil {
		record := models.Reminder{Text: text, DueAt: fireAt}
		if err := m.db.WithContext(ctx).Create(&record).Error; err != nil {
			return fmt.Errorf("persist reminder: %v", err)
		}
		recordID = record.ID
	}

	t := New(context.Background(), TypeReminder, reminderParams{recordID: recordID, text: text})
	t.ScheduledTime = &fireAt
	m.scheduled.Add(t)
	return nil
}

// ScheduleCacheCleanup prunes the directory now and then at every
// interval.
func (m *Manager) ScheduleCacheCleanup(dir string, interval time.Duration) {
	if dir == "" {
		return
	}
	if interval <= 0 {
		interval = time.Hour
	}

	var schedule func(at time.Time)
	schedule = func(at time.Time) {
		t := New(context.Background(), TypeCacheCleanup, dir)
		t.ScheduledTime = &at
		t.Callback = callbackFunc{
			complete: func(interface{}) { schedule(time.Now().Add(interval)) },
			fail: func(err error) {
				if m.logger != nil {
					m.logger.Warn(fmt.Sprintf("tts cache cleanup failed: %v", err))
				}
				schedule(time.Now().Add(interval))
			},
		}
		m.scheduled.Add(t)
	}
	schedule(time.Now())
}

// restoreReminders reloads undelivered reminders after a restart. Ones
// already past due fire immediately.
func (m *Manager) restoreReminders(ctx context.Context) error {
	if m.db == nil {
		return nil
	}

	var pending []models.Reminder
	if err := m.db.WithContext(ctx).Where("delivered = ?", false).Find(&pending).Error; err != nil {
		return fmt.Errorf("load pending reminders: %v", err)
	}

	for _, record := range pending {
		fireAt := record.DueAt
		if fireAt.Before(time.Now()) {
			fireAt = time.Now()
		}
		t := New(context.Background(), TypeReminder, reminderParams{recordID: record.ID, text: record.Text})
		t.ScheduledTime = &fireAt
		m.scheduled.Add(t)
	}
	if len(pending) > 0 && m.logger != nil {
		m.logger.FormatInfo("restored %d pending reminders", len(pending))
	}
	return nil
}

func (m *Manager) runReminder(t *Task) error {
	params, ok := t.Params.(reminderParams)
	if !ok {
		return fmt.Errorf("reminder task carries unexpected params %T", t.Params)
	}

	m.mu.RLock()
	announce := m.announce
	m.mu.RUnlock()

	if announce == nil {
		// Nobody is listening; leave the reminder pending for the next
		// session restore.
		return fmt.Errorf("no active session to deliver reminder")
	}
	announce("Reminder: " + params.text)

	if m.db != nil && params.recordID != 0 {
		return m.db.Model(&models.Reminder{}).
			Where("id = ?", params.recordID).
			Update("delivered", true).Error
	}
	return nil
}

func (m *Manager) runCacheCleanup(t *Task) error {
	dir, ok := t.Params.(string)
	if !ok {
		return fmt.Errorf("cleanup task carries unexpected params %T", t.Params)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.mp3"))
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-cacheMaxAge)
	removed := 0
	for _, file := range matches {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if os.Remove(file) == nil {
				removed++
			}
		}
	}
	if removed > 0 && m.logger != nil {
		m.logger.FormatInfo("pruned %d cached tts files", removed)
	}
	return nil
}

// callbackFunc adapts two closures to the Callback interface.
type callbackFunc struct {
	complete func(result interface{})
	fail     func(err error)
}

func (c callbackFunc) OnComplete(result interface{}) {
	if c.complete != nil {
		c.complete(result)
	}
}

func (c callbackFunc) OnError(err error) {
	if c.fail != nil {
		c.fail(err)
	}
}

// scheduledTasks fires tasks when their time comes, checking once a
// second the way a coarse reminder clock should.
type scheduledTasks struct {
	tasks    map[string]*Task
	ticker   *time.Ticker
	stopChan chan struct{}
	pool     *WorkerPool
	mu       sync.Mutex
}

func newScheduledTasks(pool *WorkerPool) *scheduledTasks {
	return &scheduledTasks{
		tasks:    make(map[string]*Task),
		ticker:   time.NewTicker(time.Second),
		stopChan: make(chan struct{}),
		pool:     pool,
	}
}

func (st *scheduledTasks) Start() {
	go st.run()
}

func (st *scheduledTasks) Stop() {
	st.ticker.Stop()
	close(st.stopChan)
}

// Add registers a task for future execution.
func (st *scheduledTasks) Add(t *Task) {
	st.mu.Lock()
	st.tasks[t.ID] = t
	st.mu.Unlock()
}

func (st *scheduledTasks) run() {
	for {
		select {
		case <-st.stopChan:
			return
		case <-st.ticker.C:
			st.fireDue()
		}
	}
}

func (st *scheduledTasks) fireDue() {
	now := time.Now()
	st.mu.Lock()
	defer st.mu.Unlock()

	for id, t := range st.tasks {
		if t.ScheduledTime != nil && !t.ScheduledTime.After(now) {
			if err := st.pool.Submit(t); err != nil {
				go t.Execute()
			}
			delete(st.tasks, id)
		}
	}
}
