package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/dgarcoe/award-planner-sub000/internal/model"
	"github.com/dgarcoe/award-planner-sub000/internal/repository"
	pkgerrors "github.com/dgarcoe/award-planner-sub000/pkg/errors"
)

// ── Mock OperatorRepository ──

type mockOperatorRepo struct {
	mu        sync.Mutex
	operators map[string]*model.Operator
	blocks    *mockBlockRepo // DeleteCascade 联动
}

func newMockOperatorRepo(blocks *mockBlockRepo) *mockOperatorRepo {
	return &mockOperatorRepo{
		operators: make(map[string]*model.Operator),
		blocks:    blocks,
	}
}

func (m *mockOperatorRepo) Create(_ context.Context, operator *model.Operator) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.operators[operator.Callsign]; ok {
		return gorm.ErrDuplicatedKey
	}
	if operator.CreatedAt.IsZero() {
		operator.CreatedAt = time.Now()
	}
	m.operators[operator.Callsign] = operator
	return nil
}

func (m *mockOperatorRepo) GetByCallsign(_ context.Context, callsign string) (*model.Operator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.operators[callsign]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOperatorRepo) List(_ context.Context) ([]model.Operator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Operator
	for _, o := range m.operators {
		result = append(result, *o)
	}
	return result, nil
}

func (m *mockOperatorRepo) UpdatePassword(_ context.Context, callsign, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.operators[callsign]; ok {
		o.PasswordHash = hash
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockOperatorRepo) SetAdmin(_ context.Context, callsign string, isAdmin bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.operators[callsign]; ok {
		o.IsAdmin = isAdmin
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockOperatorRepo) DeleteCascade(ctx context.Context, callsign string) (int64, error) {
	released, err := m.blocks.ReleaseAll(ctx, callsign, nil)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.operators, callsign)
	return released, nil
}

// ── Mock AwardRepository ──

type mockAwardRepo struct {
	mu     sync.Mutex
	nextID uint
	awards map[uint]*model.Award
	blocks *mockBlockRepo
	chat   *mockChatRepo
}

func newMockAwardRepo(blocks *mockBlockRepo, chat *mockChatRepo) *mockAwardRepo {
	return &mockAwardRepo{
		nextID: 1,
		awards: make(map[uint]*model.Award),
		blocks: blocks,
		chat:   chat,
	}
}

func (m *mockAwardRepo) Create(_ context.Context, award *model.Award) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.awards {
		if a.Name == award.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	award.ID = m.nextID
	m.nextID++
	if award.CreatedAt.IsZero() {
		award.CreatedAt = time.Now()
	}
	m.awards[award.ID] = award
	return nil
}

func (m *mockAwardRepo) GetByID(_ context.Context, id uint) (*model.Award, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.awards[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAwardRepo) List(_ context.Context, activeOnly bool) ([]model.Award, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Award
	for _, a := range m.awards {
		if activeOnly && !a.IsActive {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockAwardRepo) Update(_ context.Context, id uint, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.awards[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for key, value := range fields {
		switch key {
		case "name":
			a.Name = value.(string)
		case "description":
			a.Description = value.(string)
		case "start_date":
			a.StartDate = value.(string)
		case "end_date":
			a.EndDate = value.(string)
		case "qrz_link":
			a.QRZLink = value.(string)
		case "is_active":
			a.IsActive = value.(bool)
		}
	}
	return nil
}

func (m *mockAwardRepo) UpdateImage(_ context.Context, id uint, data []byte, imageType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.awards[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.ImageData = data
	a.ImageType = &imageType
	return nil
}

func (m *mockAwardRepo) DeleteCascade(ctx context.Context, id uint) (int64, int64, error) {
	released := m.blocks.releaseByAward(id)
	deleted := m.chat.deleteByAward(id)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.awards, id)
	return released, deleted, nil
}

// ── Mock BlockRepository ──

type mockBlockRepo struct {
	mu     sync.Mutex
	nextID uint
	blocks map[uint]*model.BandModeBlock
}

func newMockBlockRepo() *mockBlockRepo {
	return &mockBlockRepo{nextID: 1, blocks: make(map[uint]*model.BandModeBlock)}
}

func slotKey(awardID uint, band, mode string) string {
	return fmt.Sprintf("%d|%s|%s", awardID, band, mode)
}

func (m *mockBlockRepo) Reserve(_ context.Context, block *model.BandModeBlock) (*model.BandModeBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := slotKey(block.AwardID, block.Band, block.Mode)
	for _, b := range m.blocks {
		if slotKey(b.AwardID, b.Band, b.Mode) == key {
			return nil, &pkgerrors.SlotTakenError{Holder: b.OperatorCallsign}
		}
	}

	var released *model.BandModeBlock
	for id, b := range m.blocks {
		if b.AwardID == block.AwardID && b.OperatorCallsign == block.OperatorCallsign {
			prev := *b
			released = &prev
			delete(m.blocks, id)
			break
		}
	}

	block.ID = m.nextID
	m.nextID++
	block.BlockedAt = time.Now()
	stored := *block
	m.blocks[block.ID] = &stored
	return released, nil
}

func (m *mockBlockRepo) Release(_ context.Context, callsign string, awardID uint, band, mode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, b := range m.blocks {
		if b.AwardID == awardID && b.Band == band && b.Mode == mode {
			if b.OperatorCallsign != callsign {
				return &pkgerrors.NotOwnerError{Holder: b.OperatorCallsign}
			}
			delete(m.blocks, id)
			return nil
		}
	}
	return pkgerrors.ErrNotBlocked
}

func (m *mockBlockRepo) AdminRelease(_ context.Context, awardID uint, band, mode string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, b := range m.blocks {
		if b.AwardID == awardID && b.Band == band && b.Mode == mode {
			holder := b.OperatorCallsign
			delete(m.blocks, id)
			return holder, nil
		}
	}
	return "", pkgerrors.ErrNotBlocked
}

func (m *mockBlockRepo) ReleaseAll(_ context.Context, callsign string, awardID *uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for id, b := range m.blocks {
		if b.OperatorCallsign != callsign {
			continue
		}
		if awardID != nil && b.AwardID != *awardID {
			continue
		}
		delete(m.blocks, id)
		count++
	}
	return count, nil
}

func (m *mockBlockRepo) releaseByAward(awardID uint) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for id, b := range m.blocks {
		if b.AwardID == awardID {
			delete(m.blocks, id)
			count++
		}
	}
	return count
}

func (m *mockBlockRepo) List(_ context.Context, awardID *uint) ([]model.BandModeBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.BandModeBlock
	for _, b := range m.blocks {
		if awardID != nil && b.AwardID != *awardID {
			continue
		}
		result = append(result, *b)
	}
	return result, nil
}

func (m *mockBlockRepo) ListByOperator(_ context.Context, callsign string, awardID *uint) ([]model.BandModeBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.BandModeBlock
	for _, b := range m.blocks {
		if b.OperatorCallsign != callsign {
			continue
		}
		if awardID != nil && b.AwardID != *awardID {
			continue
		}
		result = append(result, *b)
	}
	return result, nil
}

func (m *mockBlockRepo) GetByKey(_ context.Context, awardID uint, band, mode string) (*model.BandModeBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.blocks {
		if b.AwardID == awardID && b.Band == band && b.Mode == mode {
			found := *b
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock AnnouncementRepository ──

type mockAnnouncementRepo struct {
	mu            sync.Mutex
	nextID        uint
	announcements map[uint]*model.Announcement
	reads         map[string]bool // "announcementID|callsign"
}

func newMockAnnouncementRepo() *mockAnnouncementRepo {
	return &mockAnnouncementRepo{
		nextID:        1,
		announcements: make(map[uint]*model.Announcement),
		reads:         make(map[string]bool),
	}
}

func readKey(id uint, callsign string) string {
	return fmt.Sprintf("%d|%s", id, callsign)
}

func (m *mockAnnouncementRepo) Create(_ context.Context, a *model.Announcement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.nextID
	m.nextID++
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	m.announcements[a.ID] = a
	return nil
}

func (m *mockAnnouncementRepo) GetByID(_ context.Context, id uint) (*model.Announcement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.announcements[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAnnouncementRepo) List(_ context.Context, includeInactive bool) ([]model.Announcement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Announcement
	for _, a := range m.announcements {
		if !includeInactive && !a.IsActive {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockAnnouncementRepo) ListWithReadStatus(_ context.Context, callsign string) ([]repository.AnnouncementWithRead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []repository.AnnouncementWithRead
	for _, a := range m.announcements {
		if !a.IsActive {
			continue
		}
		result = append(result, repository.AnnouncementWithRead{
			Announcement: *a,
			IsRead:       m.reads[readKey(a.ID, callsign)],
		})
	}
	return result, nil
}

func (m *mockAnnouncementRepo) SetActive(_ context.Context, id uint, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.announcements[id]; ok {
		a.IsActive = active
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockAnnouncementRepo) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.announcements, id)
	return nil
}

func (m *mockAnnouncementRepo) MarkRead(_ context.Context, id uint, callsign string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads[readKey(id, callsign)] = true
	return nil
}

func (m *mockAnnouncementRepo) MarkAllRead(_ context.Context, callsign string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, a := range m.announcements {
		if !a.IsActive {
			continue
		}
		key := readKey(a.ID, callsign)
		if !m.reads[key] {
			m.reads[key] = true
			count++
		}
	}
	return count, nil
}

func (m *mockAnnouncementRepo) UnreadCount(_ context.Context, callsign string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, a := range m.announcements {
		if a.IsActive && !m.reads[readKey(a.ID, callsign)] {
			count++
		}
	}
	return count, nil
}

// ── Mock ChatRepository ──

type mockChatRepo struct {
	mu       sync.Mutex
	nextID   uint
	messages []*model.ChatMessage
}

func newMockChatRepo() *mockChatRepo {
	return &mockChatRepo{nextID: 1}
}

func (m *mockChatRepo) Create(_ context.Context, message *model.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	message.ID = m.nextID
	m.nextID++
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	stored := *message
	m.messages = append(m.messages, &stored)
	return nil
}

func (m *mockChatRepo) History(_ context.Context, awardID *uint, limit int) ([]model.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.ChatMessage
	for _, msg := range m.messages {
		switch {
		case awardID == nil && msg.AwardID != nil:
			continue
		case awardID != nil && (msg.AwardID == nil || *msg.AwardID != *awardID):
			continue
		}
		result = append(result, *msg)
	}
	if limit > 0 && len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result, nil
}

func (m *mockChatRepo) deleteByAward(awardID uint) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*model.ChatMessage
	var deleted int64
	for _, msg := range m.messages {
		if msg.AwardID != nil && *msg.AwardID == awardID {
			deleted++
			continue
		}
		kept = append(kept, msg)
	}
	m.messages = kept
	return deleted
}

// ── Mock QSORepository ──

type mockQSORepo struct {
	mu     sync.Mutex
	nextID uint
	qsos   map[uint]*model.QSO
}

func newMockQSORepo() *mockQSORepo {
	return &mockQSORepo{nextID: 1, qsos: make(map[uint]*model.QSO)}
}

func (m *mockQSORepo) Create(_ context.Context, qso *model.QSO) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	qso.ID = m.nextID
	m.nextID++
	if qso.CreatedAt.IsZero() {
		qso.CreatedAt = time.Now()
	}
	stored := *qso
	m.qsos[qso.ID] = &stored
	return nil
}

func (m *mockQSORepo) GetByID(_ context.Context, id uint) (*model.QSO, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q, ok := m.qsos[id]; ok {
		return q, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQSORepo) List(_ context.Context, filter repository.QSOFilter, offset, limit int) ([]model.QSO, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.QSO
	for _, q := range m.qsos {
		if q.AwardID != filter.AwardID {
			continue
		}
		if filter.Operator != "" && q.OperatorCallsign != filter.Operator {
			continue
		}
		if filter.Band != "" && q.Band != filter.Band {
			continue
		}
		if filter.Mode != "" && q.Mode != filter.Mode {
			continue
		}
		all = append(all, *q)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockQSORepo) ListAll(_ context.Context, awardID uint) ([]model.QSO, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.QSO
	for _, q := range m.qsos {
		if q.AwardID == awardID {
			result = append(result, *q)
		}
	}
	return result, nil
}

func (m *mockQSORepo) BulkCreateSkipDuplicates(ctx context.Context, qsos []model.QSO) (int, int, error) {
	var inserted, skipped int
	for i := range qsos {
		qso := &qsos[i]
		m.mu.Lock()
		dup := false
		for _, existing := range m.qsos {
			if existing.AwardID == qso.AwardID && existing.Callsign == qso.Callsign &&
				existing.Band == qso.Band && existing.Mode == qso.Mode &&
				existing.QSODate == qso.QSODate && existing.TimeOn == qso.TimeOn {
				dup = true
				break
			}
		}
		m.mu.Unlock()
		if dup {
			skipped++
			continue
		}
		if err := m.Create(ctx, qso); err != nil {
			return 0, 0, err
		}
		inserted++
	}
	return inserted, skipped, nil
}

func (m *mockQSORepo) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.qsos, id)
	return nil
}

func (m *mockQSORepo) Stats(_ context.Context, awardID uint) (*repository.QSOStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &repository.QSOStats{
		ByBand:     make(map[string]int64),
		ByMode:     make(map[string]int64),
		ByOperator: make(map[string]int64),
	}
	for _, q := range m.qsos {
		if q.AwardID != awardID {
			continue
		}
		stats.Total++
		stats.ByBand[q.Band]++
		stats.ByMode[q.Mode]++
		stats.ByOperator[q.OperatorCallsign]++
	}
	return stats, nil
}

// ── Mock SettingRepository ──

type mockSettingRepo struct {
	mu       sync.Mutex
	settings map[string]string
}

func newMockSettingRepo() *mockSettingRepo {
	return &mockSettingRepo{settings: make(map[string]string)}
}

func (m *mockSettingRepo) Get(_ context.Context, key string) (*model.AppSetting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value, ok := m.settings[key]; ok {
		return &model.AppSetting{Key: key, Value: value}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSettingRepo) List(_ context.Context) ([]model.AppSetting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.AppSetting
	for key, value := range m.settings {
		result = append(result, model.AppSetting{Key: key, Value: value})
	}
	return result, nil
}

func (m *mockSettingRepo) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[key] = value
	return nil
}

// ── 测试装配 ──

// newTestRepo 构造全 mock 的 Repository 聚合
func newTestRepo() *repository.Repository {
	blocks := newMockBlockRepo()
	chat := newMockChatRepo()
	return &repository.Repository{
		Operator:     newMockOperatorRepo(blocks),
		Award:        newMockAwardRepo(blocks, chat),
		Block:        blocks,
		Announcement: newMockAnnouncementRepo(),
		Chat:         chat,
		QSO:          newMockQSORepo(),
		Setting:      newMockSettingRepo(),
	}
}
