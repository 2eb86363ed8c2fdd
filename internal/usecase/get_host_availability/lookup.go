package get_host_availability

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	hostRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/host"
)

// LookupStrategy способ поиска хоста по slug
type LookupStrategy string

const (
	LookupByID       LookupStrategy = "by_id"
	LookupByEmail    LookupStrategy = "by_email"
	LookupByNameSlug LookupStrategy = "by_name_slug"
)

// hostLookup одна попытка поиска
type hostLookup struct {
	strategy LookupStrategy
	id       int64
	value    string
}

// planLookups строит упорядоченный список попыток для slug
// Поиск по имени применим всегда и идет последним
func planLookups(slug string) []hostLookup {
	plan := make([]hostLookup, 0, 3)

	if id, err := strconv.ParseInt(slug, 10, 64); err == nil && id > 0 {
		plan = append(plan, hostLookup{strategy: LookupByID, id: id})
	}
	if strings.Contains(slug, "@") {
		plan = append(plan, hostLookup{strategy: LookupByEmail, value: slug})
	}
	plan = append(plan, hostLookup{strategy: LookupByNameSlug, value: domain.NormalizeNameSlug(slug)})

	return plan
}

// resolveHost выполняет попытки по порядку, побеждает первая найденная
// "Не найден" переходит к следующей попытке, остальные ошибки прерывают поиск
func (uc *UseCase) resolveHost(ctx context.Context, slug string) (*domain.Host, LookupStrategy, error) {
	for _, lookup := range planLookups(slug) {
		host, err := uc.find(ctx, lookup)
		if err == nil {
			return host, lookup.strategy, nil
		}
		if !errors.Is(err, hostRepo.ErrHostNotFound) {
			return nil, "", fmt.Errorf("%w: failed to find host %s: %v", ErrInternal, lookup.strategy, err)
		}
	}

	return nil, "", fmt.Errorf("%w: slug=%q", ErrHostNotFound, slug)
}

func (uc *UseCase) find(ctx context.Context, lookup hostLookup) (*domain.Host, error) {
	switch lookup.strategy {
	case LookupByID:
		return uc.hostRepo.GetByID(ctx, lookup.id)
	case LookupByEmail:
		return uc.hostRepo.GetByEmail(ctx, lookup.value)
	default:
		return uc.hostRepo.GetByNameSlug(ctx, lookup.value)
	}
}
