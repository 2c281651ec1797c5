package homework

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"homework-wall/biz/infrastructure/consts"
	"homework-wall/biz/infrastructure/util/log"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/cast"
)

// mysql 错误码
const (
	mysqlDBAccessDenied    = 1044
	mysqlAccessDenied      = 1045
	mysqlBadDB             = 1049
	mysqlTableAccessDenied = 1142
	mysqlNoSuchTable       = 1146
)

// homeworks 表结构
//
//	CREATE TABLE homeworks (
//	  id BIGINT AUTO_INCREMENT PRIMARY KEY,
//	  student_name VARCHAR(128) NOT NULL,
//	  original_file_name VARCHAR(255) NOT NULL,
//	  file_kind VARCHAR(16) NOT NULL,
//	  content_location VARCHAR(1024) NOT NULL,
//	  uploaded_at_millis BIGINT NOT NULL,
//	  annotation TEXT NULL,
//	  is_annotating TINYINT(1) NOT NULL DEFAULT 0,
//	  KEY idx_uploaded (uploaded_at_millis)
//	);
const homeworkColumns = "id, student_name, original_file_name, file_kind, content_location, uploaded_at_millis, annotation, is_annotating"

type MySQLMapper struct {
	db *sql.DB
}

func NewMySQLMapper(dsn string) (*MySQLMapper, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: databaseURL: %w", consts.ErrInvalidConfig, err)
	}
	// 分析结果未变化的 UPDATE 也要算作命中
	cfg.ClientFoundRows = true
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open mysql connection: %w", consts.ErrInvalidConfig, err)
	}
	log.Info("MySQL homework mapper created")
	return &MySQLMapper{db: db}, nil
}

func (m *MySQLMapper) ListAll(ctx context.Context) ([]*Homework, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY uploaded_at_millis DESC, id DESC", homeworkColumns, consts.TableHomework)
	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classifyMySQLError(err)
	}
	defer func() {
		_ = rows.Close()
	}()

	list := make([]*Homework, 0)
	for rows.Next() {
		var (
			h          Homework
			id         int64
			kind       string
			annotation sql.NullString
		)
		if err := rows.Scan(&id, &h.StudentName, &h.OriginalFileName, &kind, &h.ContentLocation,
			&h.UploadedAtMillis, &annotation, &h.IsAnnotating); err != nil {
			return nil, classifyMySQLError(err)
		}
		h.ID = cast.ToString(id)
		h.FileKind = FileKind(kind)
		if annotation.Valid && annotation.String != "" {
			var a Annotation
			if err := json.Unmarshal([]byte(annotation.String), &a); err != nil {
				log.Error("homework %s 的分析结果解析失败: %v", h.ID, err)
			} else {
				h.Annotation = &a
			}
		}
		list = append(list, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyMySQLError(err)
	}
	return list, nil
}

func (m *MySQLMapper) Insert(ctx context.Context, h *Homework) (string, error) {
	if h.ID != "" {
		return "", fmt.Errorf("%w: id already assigned", consts.ErrInvalidParams)
	}
	var annotation sql.NullString
	if h.Annotation != nil {
		b, err := json.Marshal(h.Annotation)
		if err != nil {
			return "", fmt.Errorf("%w: %w", consts.ErrInvalidParams, err)
		}
		annotation = sql.NullString{String: string(b), Valid: true}
	}
	query := fmt.Sprintf("INSERT INTO %s (student_name, original_file_name, file_kind, content_location, uploaded_at_millis, annotation, is_annotating) VALUES (?, ?, ?, ?, ?, ?, ?)", consts.TableHomework)
	res, err := m.db.ExecContext(ctx, query, h.StudentName, h.OriginalFileName, string(h.FileKind),
		h.ContentLocation, h.UploadedAtMillis, annotation, h.IsAnnotating)
	if err != nil {
		return "", classifyMySQLError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", classifyMySQLError(err)
	}
	h.ID = cast.ToString(id)
	return h.ID, nil
}

func (m *MySQLMapper) UpdateAnnotation(ctx context.Context, id string, patch AnnotationPatch) error {
	rowID, err := cast.ToInt64E(id)
	if err != nil {
		return fmt.Errorf("%w: %w", consts.ErrNotFound, consts.ErrInvalidObjectId)
	}
	b, err := json.Marshal(patch.Annotation)
	if err != nil {
		return fmt.Errorf("%w: %w", consts.ErrInvalidParams, err)
	}
	query := fmt.Sprintf("UPDATE %s SET annotation = ?, is_annotating = ? WHERE id = ?", consts.TableHomework)
	res, err := m.db.ExecContext(ctx, query, string(b), patch.IsAnnotating, rowID)
	if err != nil {
		return classifyMySQLError(err)
	}
	return requireAffected(res, id)
}

func (m *MySQLMapper) Delete(ctx context.Context, id string) error {
	rowID, err := cast.ToInt64E(id)
	if err != nil {
		return fmt.Errorf("%w: %w", consts.ErrNotFound, consts.ErrInvalidObjectId)
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", consts.TableHomework)
	res, err := m.db.ExecContext(ctx, query, rowID)
	if err != nil {
		return classifyMySQLError(err)
	}
	return requireAffected(res, id)
}

func (m *MySQLMapper) TestReachability(ctx context.Context) error {
	if err := m.db.PingContext(ctx); err != nil {
		return classifyMySQLError(err)
	}
	var id int64
	query := fmt.Sprintf("SELECT id FROM %s LIMIT 1", consts.TableHomework)
	err := m.db.QueryRowContext(ctx, query).Scan(&id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return classifyMySQLError(err)
	}
	return nil
}

func (m *MySQLMapper) Close(_ context.Context) error {
	return m.db.Close()
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return classifyMySQLError(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: homework %s", consts.ErrNotFound, id)
	}
	return nil
}

func classifyMySQLError(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDBAccessDenied, mysqlAccessDenied, mysqlTableAccessDenied:
			return fmt.Errorf("%w: %w", consts.ErrPermissionDenied, err)
		case mysqlBadDB, mysqlNoSuchTable:
			return fmt.Errorf("%w: %w", consts.ErrNotProvisioned, err)
		}
	}
	return fmt.Errorf("%w: %w", consts.ErrStoreUnavailable, err)
}
