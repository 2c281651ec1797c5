package homework

import (
	"context"
	"encoding/json"
	"fmt"
	"homework-wall/biz/infrastructure/consts"
	"homework-wall/biz/infrastructure/util/log"
)

const listCachePrefix = "homework_wall:homeworks"

// ICacheStore CachedMapper 依赖的缓存能力，go-zero 的 *redis.Redis 即满足
type ICacheStore interface {
	GetCtx(ctx context.Context, key string) (string, error)
	SetexCtx(ctx context.Context, key, value string, seconds int) error
	IncrCtx(ctx context.Context, key string) (int64, error)
}

// CachedMapper 缓存 ListAll 的结果，列表按代号存放，任何写操作推进代号
type CachedMapper struct {
	IHomeworkMapper
	rds    ICacheStore
	genKey string
	expire int
}

func NewCachedMapper(inner IHomeworkMapper, rds ICacheStore, namespace string, expire int) *CachedMapper {
	if expire <= 0 {
		expire = consts.DefaultListCacheSeconds
	}
	return &CachedMapper{
		IHomeworkMapper: inner,
		rds:             rds,
		genKey:          fmt.Sprintf("%s:%s:gen", listCachePrefix, namespace),
		expire:          expire,
	}
}

// ListAll 优先读缓存，缓存异常时直接回源
// 回源期间若有写入，代号已变，旧列表只会写进不再被读取的旧 key
func (m *CachedMapper) ListAll(ctx context.Context) ([]*Homework, error) {
	gen, err := m.rds.GetCtx(ctx, m.genKey)
	if err != nil {
		log.CtxError(ctx, "读取作品列表缓存代号失败: %v", err)
		return m.IHomeworkMapper.ListAll(ctx)
	}
	if gen == "" {
		gen = "0"
	}
	key := m.listKey(gen)

	cached, err := m.rds.GetCtx(ctx, key)
	if err != nil {
		log.CtxError(ctx, "读取作品列表缓存失败: %v", err)
	} else if cached != "" {
		var list []*Homework
		uerr := json.Unmarshal([]byte(cached), &list)
		if uerr == nil {
			return list, nil
		}
		log.CtxError(ctx, "作品列表缓存反序列化失败: %v", uerr)
	}

	list, err := m.IHomeworkMapper.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(list); err == nil {
		if err := m.rds.SetexCtx(ctx, key, string(data), m.expire); err != nil {
			log.CtxError(ctx, "写入作品列表缓存失败: %v", err)
		}
	}
	return list, nil
}

func (m *CachedMapper) Insert(ctx context.Context, h *Homework) (string, error) {
	id, err := m.IHomeworkMapper.Insert(ctx, h)
	if err == nil {
		m.invalidate(ctx)
	}
	return id, err
}

func (m *CachedMapper) UpdateAnnotation(ctx context.Context, id string, patch AnnotationPatch) error {
	err := m.IHomeworkMapper.UpdateAnnotation(ctx, id, patch)
	if err == nil {
		m.invalidate(ctx)
	}
	return err
}

func (m *CachedMapper) Delete(ctx context.Context, id string) error {
	err := m.IHomeworkMapper.Delete(ctx, id)
	if err == nil {
		m.invalidate(ctx)
	}
	return err
}

func (m *CachedMapper) listKey(gen string) string {
	return fmt.Sprintf("%s:%s", m.genKey, gen)
}

func (m *CachedMapper) invalidate(ctx context.Context) {
	if _, err := m.rds.IncrCtx(ctx, m.genKey); err != nil {
		log.CtxError(ctx, "推进作品列表缓存代号失败: %v", err)
	}
}
