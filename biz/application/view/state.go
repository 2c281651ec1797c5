package view

import (
	"homework-wall/biz/infrastructure/repository/homework"
	"sync"
	"time"

	"github.com/samber/lo"
)

type Screen string

const (
	ScreenGallery Screen = "GALLERY"
	ScreenUpload  Screen = "UPLOAD"
	ScreenLogin   Screen = "LOGIN"
	ScreenSetup   Screen = "SETUP"
)

// ValidScreen 判断是否为已知页面
func ValidScreen(s Screen) bool {
	return lo.Contains([]Screen{ScreenGallery, ScreenUpload, ScreenLogin, ScreenSetup}, s)
}

const defaultSubscriberBuffer = 64

type Notification struct {
	ID                int64  `json:"id"`
	Message           string `json:"message"`
	AutoDismissMillis int64  `json:"autoDismissMillis"`
}

type Snapshot struct {
	Records      []*homework.Homework `json:"records"`
	Screen       Screen               `json:"screen"`
	IsAdmin      bool                 `json:"isAdmin"`
	Notification *Notification        `json:"notification,omitempty"`
}

// State 前端所见状态的内存投影，每次修改对观察者都是原子的
type State struct {
	mu           sync.RWMutex
	records      []*homework.Homework
	screen       Screen
	isAdmin      bool
	notification *Notification
	seq          int64
	subs         map[int]chan Event
	nextSub      int
}

func NewState() *State {
	return &State{
		records: make([]*homework.Homework, 0),
		screen:  ScreenGallery,
		subs:    make(map[int]chan Event),
	}
}

// InsertFront 新记录放在最前
func (s *State) InsertFront(h *homework.Homework) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]*homework.Homework{h.Clone()}, s.records...)
	s.broadcast(Event{Type: EventInserted, Data: h.Clone()})
}

// PatchByID 记录已不存在时忽略
func (s *State) PatchByID(id string, patch homework.AnnotationPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, _, ok := lo.FindIndexOf(s.records, func(h *homework.Homework) bool { return h.ID == id })
	if !ok {
		return false
	}
	h.Apply(patch)
	s.broadcast(Event{Type: EventPatched, Data: h.Clone()})
	return true
}

func (s *State) RemoveByID(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, idx, ok := lo.FindIndexOf(s.records, func(h *homework.Homework) bool { return h.ID == id })
	if !ok {
		return false
	}
	s.records = append(s.records[:idx:idx], s.records[idx+1:]...)
	s.broadcast(Event{Type: EventRemoved, Data: id})
	return true
}

// Replace 整体替换记录列表
func (s *State) Replace(list []*homework.Homework) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = cloneAll(list)
	s.broadcast(Event{Type: EventReloaded, Data: cloneAll(list)})
}

func (s *State) SetScreen(screen Screen) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen = screen
	s.broadcast(Event{Type: EventScreen, Data: screen})
}

func (s *State) SetAdmin(isAdmin bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isAdmin = isAdmin
	s.broadcast(Event{Type: EventAdmin, Data: isAdmin})
}

// Notify 展示提示，autoDismissMillis 大于 0 时到期自动消失，新提示会顶替旧提示
func (s *State) Notify(message string, autoDismissMillis int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	n := &Notification{ID: s.seq, Message: message, AutoDismissMillis: autoDismissMillis}
	s.notification = n
	s.broadcast(Event{Type: EventNotification, Message: message, Data: *n})
	if autoDismissMillis > 0 {
		id := n.ID
		time.AfterFunc(time.Duration(autoDismissMillis)*time.Millisecond, func() { s.Dismiss(id) })
	}
}

// Dismiss 关闭指定提示，已被替换时不做处理
func (s *State) Dismiss(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notification == nil || s.notification.ID != id {
		return false
	}
	s.notification = nil
	s.broadcast(Event{Type: EventDismissed, Data: id})
	return true
}

func (s *State) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := &Snapshot{
		Records: cloneAll(s.records),
		Screen:  s.screen,
		IsAdmin: s.isAdmin,
	}
	if s.notification != nil {
		n := *s.notification
		snap.Notification = &n
	}
	return snap
}

func (s *State) Records() []*homework.Homework {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.records)
}

// Subscribe 订阅视图事件，返回的函数用于取消订阅
func (s *State) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan Event, defaultSubscriberBuffer)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

// broadcast 调用方需持有写锁
func (s *State) broadcast(evt Event) {
	for _, ch := range s.subs {
		sendEvent(ch, evt)
	}
}

func cloneAll(list []*homework.Homework) []*homework.Homework {
	return lo.Map(list, func(h *homework.Homework, _ int) *homework.Homework { return h.Clone() })
}
