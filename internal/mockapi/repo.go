// Package mockapi is a local stand-in for the bookshelf backend: the same REST
// contract served by gin on top of sqlite. It exists for development runs and
// round-trip tests.
package mockapi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bookshelf/pkg/database"
	"bookshelf/pkg/models"
)

// ErrConflict marks a second year-scoped resource for the same (user, year).
var ErrConflict = errors.New("mockapi: already exists")

type Repo struct {
	DB *sql.DB
}

// NewRepo applies the schema and returns a repo over db.
func NewRepo(db *sql.DB) (*Repo, error) {
	if err := database.Migrate(db, schema); err != nil {
		return nil, fmt.Errorf("migrate mock api: %w", err)
	}
	return &Repo{DB: db}, nil
}

func idOf(n int64) models.ID { return models.ID(strconv.FormatInt(n, 10)) }

func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// Users

func (r *Repo) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, nome FROM usuarios ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		out = append(out, models.User{ID: idOf(id), Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) CreateUser(ctx context.Context, name string) (models.User, error) {
	res, err := r.DB.ExecContext(ctx, `INSERT INTO usuarios (nome) VALUES (?)`, name)
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, fmt.Errorf("user id: %w", err)
	}
	return models.User{ID: idOf(id), Name: name}, nil
}

func (r *Repo) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var name string
	err := r.DB.QueryRowContext(ctx, `SELECT nome FROM usuarios WHERE id = ?`, id).Scan(&name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &models.User{ID: idOf(id), Name: name}, nil
}

// Books

const bookColumns = `id, usuario_id, titulo, autor, COALESCE(genero, ''), COALESCE(imagem_url, ''),
	tempo_leitura_dias, estrelas, coracoes, fogos, humor, favorito`

func scanBook(sc interface{ Scan(...any) error }) (models.Book, error) {
	var (
		b          models.Book
		id, userID int64
	)
	err := sc.Scan(&id, &userID, &b.Title, &b.Author, &b.Genre, &b.CoverURL,
		&b.ReadingDays, &b.Stars, &b.Hearts, &b.Intensity, &b.Emotion, &b.Favorite)
	if err != nil {
		return models.Book{}, err
	}
	b.ID, b.UserID = idOf(id), idOf(userID)
	return b, nil
}

func (r *Repo) ListBooks(ctx context.Context, userID int64) ([]models.Book, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+bookColumns+` FROM livros WHERE usuario_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	out := []models.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book row: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	b, err := scanBook(r.DB.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM livros WHERE id = ?`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &b, nil
}

func (r *Repo) CreateBook(ctx context.Context, userID int64, b models.Book) (models.Book, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO livros (usuario_id, titulo, autor, genero, imagem_url,
			tempo_leitura_dias, estrelas, coracoes, fogos, humor, favorito)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, userID, b.Title, b.Author, nullable(b.Genre), nullable(b.CoverURL),
		b.ReadingDays, b.Stars, b.Hearts, b.Intensity, b.Emotion, b.Favorite)
	if err != nil {
		return models.Book{}, fmt.Errorf("insert book: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Book{}, fmt.Errorf("book id: %w", err)
	}
	b.ID, b.UserID = idOf(id), idOf(userID)
	return b, nil
}

// SaveBook overwrites every mutable column of an existing book.
func (r *Repo) SaveBook(ctx context.Context, id int64, b models.Book) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE livros SET
			titulo = ?, autor = ?, genero = ?, imagem_url = ?,
			tempo_leitura_dias = ?, estrelas = ?, coracoes = ?, fogos = ?, humor = ?, favorito = ?
		WHERE id = ?
	`, b.Title, b.Author, nullable(b.Genre), nullable(b.CoverURL),
		b.ReadingDays, b.Stars, b.Hearts, b.Intensity, b.Emotion, b.Favorite, id)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

func (r *Repo) DeleteBook(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM livros WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete book: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Goals

// GetGoal derives the read count and genre breakdown from the user's books.
func (r *Repo) GetGoal(ctx context.Context, userID int64, year int) (*models.ReadingGoal, error) {
	var (
		id     int64
		target int
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, quantidade_objetivo FROM metas_leitura WHERE usuario_id = ? AND ano = ?
	`, userID, year).Scan(&id, &target)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return r.fillGoal(ctx, userID, models.ReadingGoal{ID: idOf(id), Year: year, TargetCount: target, UserID: idOf(userID)})
}

func (r *Repo) fillGoal(ctx context.Context, userID int64, g models.ReadingGoal) (*models.ReadingGoal, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT COALESCE(NULLIF(TRIM(genero), ''), ''), COUNT(*)
		FROM livros WHERE usuario_id = ?
		GROUP BY 1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("goal genres: %w", err)
	}
	defer rows.Close()

	g.TopGenres = map[string]int{}
	for rows.Next() {
		var (
			genre string
			n     int
		)
		if err := rows.Scan(&genre, &n); err != nil {
			return nil, fmt.Errorf("scan genre row: %w", err)
		}
		g.ReadCount += n
		if genre != "" {
			g.TopGenres[genre] = n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return &g, nil
}

func (r *Repo) CreateGoal(ctx context.Context, userID int64, year, target int) (*models.ReadingGoal, error) {
	existing, err := r.GetGoal(ctx, userID, year)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO metas_leitura (usuario_id, ano, quantidade_objetivo) VALUES (?, ?, ?)
	`, userID, year, target)
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("goal id: %w", err)
	}
	return r.fillGoal(ctx, userID, models.ReadingGoal{ID: idOf(id), Year: year, TargetCount: target, UserID: idOf(userID)})
}

func (r *Repo) UpdateGoal(ctx context.Context, id int64, target int) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE metas_leitura SET quantidade_objetivo = ? WHERE id = ?`, target, id)
	if err != nil {
		return false, fmt.Errorf("update goal: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Challenges

func (r *Repo) GetChallenge(ctx context.Context, userID int64, year int) (*models.Challenge, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `SELECT id FROM desafios_az WHERE usuario_id = ? AND ano = ?`, userID, year).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get challenge: %w", err)
	}
	return r.loadChallenge(ctx, models.Challenge{ID: idOf(id), Year: year, UserID: idOf(userID)}, id)
}

func (r *Repo) loadChallenge(ctx context.Context, ch models.Challenge, id int64) (*models.Challenge, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT letra, titulo_livro, completado FROM desafio_letras WHERE desafio_id = ? ORDER BY letra
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list letters: %w", err)
	}
	defer rows.Close()

	ch.Letters = []models.ChallengeLetter{}
	for rows.Next() {
		var l models.ChallengeLetter
		if err := rows.Scan(&l.Letter, &l.BookTitle, &l.Completed); err != nil {
			return nil, fmt.Errorf("scan letter row: %w", err)
		}
		ch.Letters = append(ch.Letters, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return &ch, nil
}

// CreateChallenge inserts the challenge with its 26 empty letters in one transaction.
func (r *Repo) CreateChallenge(ctx context.Context, userID int64, year int) (*models.Challenge, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM desafios_az WHERE usuario_id = ? AND ano = ?`, userID, year).Scan(&n); err != nil {
		return nil, fmt.Errorf("count challenge: %w", err)
	}
	if n > 0 {
		return nil, ErrConflict
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO desafios_az (usuario_id, ano) VALUES (?, ?)`, userID, year)
	if err != nil {
		return nil, fmt.Errorf("insert challenge: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("challenge id: %w", err)
	}
	for _, letter := range models.Alphabet {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO desafio_letras (desafio_id, letra) VALUES (?, ?)
		`, id, string(letter)); err != nil {
			return nil, fmt.Errorf("insert letter: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit challenge: %w", err)
	}
	return r.loadChallenge(ctx, models.Challenge{ID: idOf(id), Year: year, UserID: idOf(userID)}, id)
}

func (r *Repo) SaveLetter(ctx context.Context, id int64, l models.ChallengeLetter) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE desafio_letras SET titulo_livro = ?, completado = ?
		WHERE desafio_id = ? AND letra = ?
	`, l.BookTitle, l.Completed, id, l.Letter)
	if err != nil {
		return false, fmt.Errorf("update letter: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Calendar

// GetCalendar always returns twelve months; months never saved read as zero.
func (r *Repo) GetCalendar(ctx context.Context, userID int64, year int) (*models.Calendar, error) {
	cal := &models.Calendar{UserID: idOf(userID), Year: year, Months: make([]models.CalendarMonth, 12)}
	for i := range cal.Months {
		cal.Months[i].Month = i + 1
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT mes, quantidade_livros FROM calendario_meses WHERE usuario_id = ? AND ano = ?
	`, userID, year)
	if err != nil {
		return nil, fmt.Errorf("list months: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var month, count int
		if err := rows.Scan(&month, &count); err != nil {
			return nil, fmt.Errorf("scan month row: %w", err)
		}
		if month >= 1 && month <= 12 {
			cal.Months[month-1].BookCount = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return cal, nil
}

func (r *Repo) SaveMonth(ctx context.Context, userID int64, year, month, count int) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO calendario_meses (usuario_id, ano, mes, quantidade_livros)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(usuario_id, ano, mes) DO UPDATE SET
			quantidade_livros = excluded.quantidade_livros
	`, userID, year, month, count)
	if err != nil {
		return fmt.Errorf("upsert month: %w", err)
	}
	return nil
}

// Next reads

func (r *Repo) ListNextReads(ctx context.Context, userID int64) ([]models.NextRead, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, titulo, COALESCE(image_url, ''), COALESCE(complemento, ''), prioridade
		FROM proximas_leituras WHERE usuario_id = ? ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list next reads: %w", err)
	}
	defer rows.Close()

	out := []models.NextRead{}
	for rows.Next() {
		var (
			n  models.NextRead
			id int64
		)
		if err := rows.Scan(&id, &n.Title, &n.ImageURL, &n.Note, &n.Priority); err != nil {
			return nil, fmt.Errorf("scan next read row: %w", err)
		}
		n.ID, n.UserID = idOf(id), idOf(userID)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) CreateNextRead(ctx context.Context, userID int64, n models.NextRead) (models.NextRead, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO proximas_leituras (usuario_id, titulo, image_url, complemento, prioridade)
		VALUES (?, ?, ?, ?, ?)
	`, userID, n.Title, nullable(n.ImageURL), nullable(n.Note), n.Priority)
	if err != nil {
		return models.NextRead{}, fmt.Errorf("insert next read: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.NextRead{}, fmt.Errorf("next read id: %w", err)
	}
	n.ID, n.UserID = idOf(id), idOf(userID)
	return n, nil
}

func (r *Repo) DeleteNextRead(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM proximas_leituras WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete next read: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
