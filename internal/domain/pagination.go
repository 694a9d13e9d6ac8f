package domain

// PageRequest - курсорная пагинация: записи с id < LastSeenID, от новых к старым
type PageRequest struct {
	LastSeenID *int64
	PageSize   int
}

// Normalize: 0 означает "не указан" и заменяется на defaultSize,
// отрицательные значения прижимаются к 1, maxSize > 0 ограничивает сверху.
func (p PageRequest) Normalize(defaultSize, maxSize int) PageRequest {
	if defaultSize < 1 {
		defaultSize = DefaultPageSize
	}

	out := p
	switch {
	case out.PageSize == 0:
		out.PageSize = defaultSize
	case out.PageSize < 1:
		out.PageSize = 1
	}
	if maxSize > 0 && out.PageSize > maxSize {
		out.PageSize = maxSize
	}

	return out
}

// Exhausted - id начинаются с 1, при курсоре <= 1 записей с меньшим id нет
func (p PageRequest) Exhausted() bool {
	return p.LastSeenID != nil && *p.LastSeenID <= 1
}

// Admits проверяет условие курсора для id
func (p PageRequest) Admits(id int64) bool {
	return p.LastSeenID == nil || id < *p.LastSeenID
}

// NextLastSeenID - курсор для следующей страницы, nil если страница пустая
func NextLastSeenID(chats []*PersonalChat) *int64 {
	if len(chats) == 0 {
		return nil
	}
	id := chats[len(chats)-1].ID
	return &id
}

type FilterKind int

const (
	FilterAll FilterKind = iota
	FilterBySender
	FilterByReceiver
	FilterByGroup
)

func (k FilterKind) String() string {
	switch k {
	case FilterAll:
		return "all"
	case FilterBySender:
		return "by_sender"
	case FilterByReceiver:
		return "by_receiver"
	case FilterByGroup:
		return "by_group"
	default:
		return "unknown"
	}
}

// Filter - предикат выборки. FilterAll включает удаленные записи, остальные - нет.
// Для FilterByGroup непустой ReceiverID дополнительно оставляет только входящие.
type Filter struct {
	Kind       FilterKind
	SenderID   string
	ReceiverID string
	GroupKey   GroupKey
}

func AllFilter() Filter {
	return Filter{Kind: FilterAll}
}

func SenderFilter(senderID string) Filter {
	return Filter{Kind: FilterBySender, SenderID: senderID}
}

func ReceiverFilter(receiverID string) Filter {
	return Filter{Kind: FilterByReceiver, ReceiverID: receiverID}
}

func GroupFilter(key GroupKey) Filter {
	return Filter{Kind: FilterByGroup, GroupKey: key}
}

// InboundGroupFilter - сообщения группы, адресованные receiverID
func InboundGroupFilter(key GroupKey, receiverID string) Filter {
	return Filter{Kind: FilterByGroup, GroupKey: key, ReceiverID: receiverID}
}

// Match применяет фильтр к записи (без учета курсора)
func (f Filter) Match(c *PersonalChat) bool {
	if c == nil {
		return false
	}
	if f.Kind == FilterAll {
		return true
	}
	if c.IsDeleted {
		return false
	}

	switch f.Kind {
	case FilterBySender:
		return c.SenderID == f.SenderID
	case FilterByReceiver:
		return c.ReceiverID == f.ReceiverID
	case FilterByGroup:
		if c.GroupKey() != f.GroupKey {
			return false
		}
		return f.ReceiverID == "" || c.ReceiverID == f.ReceiverID
	default:
		return false
	}
}
