package journal

import (
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/shanilnc/night-mind/internal/apperr"
	"github.com/shanilnc/night-mind/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

// PostgresStorage persists the journal in PostgreSQL.
type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	storage := &PostgresStorage{db: db}

	// Initialize database schema
	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %v", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %v", err)
	}

	_, err = s.db.Exec(string(migrationSQL))
	if err != nil {
		return fmt.Errorf("error executing migrations: %v", err)
	}

	return nil
}

func (s *PostgresStorage) CreateEntry(entry *models.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (
			id, title, content, mood, tags, anxiety_level, gratitude, goals,
			created_at, updated_at, is_from_conversation, conversation_id,
			message_count, user_message_count, ai_message_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := s.db.Exec(query,
		entry.ID, entry.Title, entry.Content, entry.Mood, pq.Array(entry.Tags),
		entry.AnxietyLevel, entry.Gratitude, entry.Goals,
		entry.Timestamp, entry.UpdatedAt, entry.IsFromConversation,
		entry.ConversationID, entry.MessageCount, entry.UserMessageCount,
		entry.AIMessageCount,
	)
	if err != nil {
		return apperr.Persistence("create entry", err)
	}
	return nil
}

const entryColumns = `id, title, content, mood, tags, anxiety_level, gratitude, goals,
	created_at, updated_at, is_from_conversation, conversation_id,
	message_count, user_message_count, ai_message_count`

func (s *PostgresStorage) GetEntry(id string) (*models.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE id = $1`

	entry, err := scanEntry(s.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("journal entry", id)
	}
	if err != nil {
		return nil, apperr.Persistence("get entry", err)
	}
	return entry, nil
}

func (s *PostgresStorage) ListEntries(filter EntryFilter) ([]*models.JournalEntry, int, error) {
	var conditions []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		p := arg("%" + strings.ToLower(filter.Search) + "%")
		conditions = append(conditions, fmt.Sprintf("(LOWER(content) LIKE %s OR LOWER(title) LIKE %s)", p, p))
	}
	if len(filter.Tags) > 0 {
		conditions = append(conditions, fmt.Sprintf("tags && %s", arg(pq.Array(filter.Tags))))
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= %s", arg(*filter.StartDate)))
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= %s", arg(*filter.EndDate)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM journal_entries"+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Persistence("count entries", err)
	}

	query := "SELECT " + entryColumns + " FROM journal_entries" + where + " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %s OFFSET %s", arg(filter.Limit), arg((page-1)*filter.Limit))
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, apperr.Persistence("list entries", err)
	}
	defer rows.Close()

	var entries []*models.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, 0, apperr.Persistence("scan entry", err)
		}
		entries = append(entries, entry)
	}
	return entries, total, rows.Err()
}

func (s *PostgresStorage) UpdateEntry(entry *models.JournalEntry) error {
	query := `
		UPDATE journal_entries
		SET title = $1, content = $2, mood = $3, tags = $4, anxiety_level = $5,
			gratitude = $6, goals = $7, updated_at = $8
		WHERE id = $9`

	result, err := s.db.Exec(query,
		entry.Title, entry.Content, entry.Mood, pq.Array(entry.Tags),
		entry.AnxietyLevel, entry.Gratitude, entry.Goals, entry.UpdatedAt,
		entry.ID,
	)
	if err != nil {
		return apperr.Persistence("update entry", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperr.Persistence("update entry", err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("journal entry", entry.ID)
	}
	return nil
}

func (s *PostgresStorage) DeleteEntry(id string) error {
	result, err := s.db.Exec(`DELETE FROM journal_entries WHERE id = $1`, id)
	if err != nil {
		return apperr.Persistence("delete entry", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperr.Persistence("delete entry", err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("journal entry", id)
	}
	return nil
}

func (s *PostgresStorage) CreateMoodEntry(entry *models.MoodEntry) error {
	query := `
		INSERT INTO mood_entries (id, mood, emotions, triggers, physical_symptoms, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.Exec(query,
		entry.ID, entry.Mood, pq.Array(entry.Emotions), pq.Array(entry.Triggers),
		pq.Array(entry.PhysicalSymptoms), entry.Notes, entry.Timestamp,
	)
	if err != nil {
		return apperr.Persistence("create mood entry", err)
	}
	return nil
}

func (s *PostgresStorage) ListMoodEntries(r TimeRange) ([]*models.MoodEntry, error) {
	var conditions []string
	var args []any

	if r.Start != nil {
		args = append(args, *r.Start)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if r.End != nil {
		args = append(args, *r.End)
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	query := `SELECT id, mood, emotions, triggers, physical_symptoms, notes, created_at FROM mood_entries`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, apperr.Persistence("list mood entries", err)
	}
	defer rows.Close()

	var entries []*models.MoodEntry
	for rows.Next() {
		entry := &models.MoodEntry{}
		err := rows.Scan(
			&entry.ID, &entry.Mood, pq.Array(&entry.Emotions),
			pq.Array(&entry.Triggers), pq.Array(&entry.PhysicalSymptoms),
			&entry.Notes, &entry.Timestamp,
		)
		if err != nil {
			return nil, apperr.Persistence("scan mood entry", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *PostgresStorage) CreateInsight(insight *models.Insight) error {
	query := `
		INSERT INTO insights (id, type, title, description, frequency, actionable, last_occurrence)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.Exec(query,
		insight.ID, insight.Type, insight.Title, insight.Description,
		insight.Frequency, insight.Actionable, insight.LastOccurrence,
	)
	if err != nil {
		return apperr.Persistence("create insight", err)
	}
	return nil
}

func (s *PostgresStorage) ListInsights(insightType models.InsightType) ([]*models.Insight, error) {
	query := `SELECT id, type, title, description, frequency, actionable, last_occurrence FROM insights`
	var args []any
	if insightType != "" {
		query += " WHERE type = $1"
		args = append(args, string(insightType))
	}
	query += " ORDER BY last_occurrence DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, apperr.Persistence("list insights", err)
	}
	defer rows.Close()

	var insights []*models.Insight
	for rows.Next() {
		in := &models.Insight{}
		err := rows.Scan(
			&in.ID, &in.Type, &in.Title, &in.Description,
			&in.Frequency, &in.Actionable, &in.LastOccurrence,
		)
		if err != nil {
			return nil, apperr.Persistence("scan insight", err)
		}
		insights = append(insights, in)
	}
	return insights, rows.Err()
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.JournalEntry, error) {
	entry := &models.JournalEntry{}
	var mood, anxiety sql.NullInt64
	err := row.Scan(
		&entry.ID, &entry.Title, &entry.Content, &mood,
		pq.Array(&entry.Tags), &anxiety, &entry.Gratitude,
		&entry.Goals, &entry.Timestamp, &entry.UpdatedAt,
		&entry.IsFromConversation, &entry.ConversationID,
		&entry.MessageCount, &entry.UserMessageCount, &entry.AIMessageCount,
	)
	if err != nil {
		return nil, err
	}
	if mood.Valid {
		v := int(mood.Int64)
		entry.Mood = &v
	}
	if anxiety.Valid {
		v := int(anxiety.Int64)
		entry.AnxietyLevel = &v
	}
	return entry, nil
}
