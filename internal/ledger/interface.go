package ledger

// PlayerDirectory maps stable player ids to unique display names.
type PlayerDirectory interface {
	CreatePlayer(name string) (string, error)
	FindByName(name string) (string, bool, error)
	GetOrCreate(name string) (string, error)
	Rename(playerID, newName string) error
	GetPlayer(playerID string) (*Player, error)
	ListPlayers() ([]Player, error)
	ListAvailablePlayers(excludeSessionID string) ([]Player, error)
}

// SessionStore manages sessions and their memberships.
type SessionStore interface {
	CreateSession(name string) (string, error)
	GetSession(sessionID string) (*Session, error)
	ListActive() ([]Session, error)
	ListEnded(limit int) ([]Session, error)
	ListAll() ([]Session, error)
	EndSession(sessionID string) error
	DeleteSession(sessionID string) error
	AddPlayerToSession(sessionID, playerID string) error
	ListSessionPlayers(sessionID string) ([]SessionPlayer, error)
}

// ScoreLedger appends and reverses scoring events.
type ScoreLedger interface {
	AppendRecord(req AppendRequest) (*Record, error)
	DeleteRecord(recordID int64) (*Record, error)
	GetRecord(recordID int64) (*Record, error)
	ListRecords(sessionID string) ([]Record, error)
	ListRecordsForPlayer(playerID string) ([]PlayerRecord, error)
}

// Store is the full ledger engine. All mutations share one lock.
type Store interface {
	PlayerDirectory
	SessionStore
	ScoreLedger
}
