package query

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultLimit - размер страницы по умолчанию, если сервис не задал свой
const DefaultLimit = 10

// reservedKeys - служебные параметры запроса, не участвующие в построении фильтра
var reservedKeys = map[string]struct{}{
	"page":   {},
	"limit":  {},
	"sort":   {},
	"fields": {},
	"search": {},
}

// comparisonOps - поддерживаемые операторы сравнения в синтаксисе field[op]=value
var comparisonOps = map[string]string{
	"gte": "$gte",
	"gt":  "$gt",
	"lte": "$lte",
	"lt":  "$lt",
}

// Options - настройки движка запросов для конкретной коллекции
type Options struct {
	SearchFields []string // Поля, по которым работает параметр search
	DefaultSort  bson.D   // Сортировка по умолчанию (если пусто - created_at DESC)
	DefaultLimit int64    // Размер страницы по умолчанию (если 0 - DefaultLimit)
}

// Clause - разобранное условие фильтра
// Явное представление field/operator/value вместо динамической подстановки ключей
type Clause struct {
	Field    string
	Operator string // Оператор MongoDB: $eq, $gte, $gt, $lte, $lt
	Value    interface{}
}

// Query - построенный запрос на чтение коллекции
// Создается через Build и выполняется через Execute
type Query struct {
	Filter     bson.M
	Sort       bson.D
	Projection bson.D // nil - вернуть все поля
	Page       int64
	Limit      int64
	Skip       int64

	explicitPage bool // page был явно передан клиентом
}

// Build разбирает параметры запроса в фильтр + сортировку + проекцию + пагинацию.
// base - фильтр вызывающего сервиса (например, "только заказы этого пользователя"),
// он всегда добавляется к фильтру и не может быть переопределен входными данными.
// Некорректные page/limit молча заменяются значениями по умолчанию - это
// осознанная политика, существующее поведение API на ней завязано.
func Build(values url.Values, base bson.M, opts Options) *Query {
	filter := bson.M{}

	for _, clause := range parseClauses(values) {
		if clause.Operator == "$eq" {
			filter[clause.Field] = clause.Value
			continue
		}

		sub, ok := filter[clause.Field].(bson.M)
		if !ok {
			sub = bson.M{}
			filter[clause.Field] = sub
		}
		sub[clause.Operator] = clause.Value
	}

	// Поиск - OR по регистронезависимому вхождению в объявленные поля
	if search := values.Get("search"); search != "" && len(opts.SearchFields) > 0 {
		or := make(bson.A, 0, len(opts.SearchFields))
		for _, field := range opts.SearchFields {
			or = append(or, bson.M{field: bson.M{
				"$regex":   regexp.QuoteMeta(search),
				"$options": "i",
			}})
		}
		filter["$or"] = or
	}

	// Базовый фильтр применяется последним и перекрывает недоверенный ввод
	for key, value := range base {
		filter[key] = value
	}

	limit := opts.DefaultLimit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if parsed, err := strconv.ParseInt(values.Get("limit"), 10, 64); err == nil && parsed > 0 {
		limit = parsed
	}

	page := int64(1)
	rawPage := values.Get("page")
	if parsed, err := strconv.ParseInt(rawPage, 10, 64); err == nil && parsed >= 1 {
		page = parsed
	}

	return &Query{
		Filter:       filter,
		Sort:         parseSort(values.Get("sort"), opts.DefaultSort),
		Projection:   parseProjection(values.Get("fields")),
		Page:         page,
		Limit:        limit,
		Skip:         (page - 1) * limit,
		explicitPage: rawPage != "",
	}
}

// parseClauses превращает параметры запроса в список условий фильтра.
// Ключ вида field[op] задает оператор сравнения, ключ без суффикса - равенство.
// Неизвестные ключи не отклоняются: они становятся фильтрами равенства
// (защита от HPP - забота внешнего middleware, не этого уровня).
func parseClauses(values url.Values) []Clause {
	clauses := make([]Clause, 0, len(values))

	for key, raw := range values {
		if _, reserved := reservedKeys[key]; reserved {
			continue
		}
		if len(raw) == 0 {
			continue
		}

		field, operator := parseKey(key)

		if operator == "$eq" && len(raw) > 1 {
			// Повторяющийся параметр - сопоставляем с любым из значений
			in := make(bson.A, 0, len(raw))
			for _, v := range raw {
				in = append(in, coerceValue(v))
			}
			clauses = append(clauses, Clause{Field: field, Operator: "$in", Value: in})
			continue
		}

		clauses = append(clauses, Clause{
			Field:    field,
			Operator: operator,
			Value:    coerceValue(raw[0]),
		})
	}

	return clauses
}

// parseKey выделяет из ключа имя поля и оператор сравнения
func parseKey(key string) (string, string) {
	open := strings.Index(key, "[")
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return key, "$eq"
	}

	op, supported := comparisonOps[key[open+1:len(key)-1]]
	if !supported {
		// Неподдерживаемый суффикс - ключ целиком уходит как фильтр равенства
		return key, "$eq"
	}

	return key[:open], op
}

// coerceValue приводит строковое значение к числу, если это возможно.
// Повторяет слабую типизацию хранилища: числовые строки сравниваются
// численно, все остальное - как есть.
func coerceValue(value string) interface{} {
	if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
		return parsed
	}
	if parsed, err := strconv.ParseFloat(value, 64); err == nil {
		return parsed
	}
	return value
}

// parseSort разбирает список полей сортировки через запятую.
// Префикс "-" означает сортировку по убыванию, приоритет - слева направо.
func parseSort(raw string, defaultSort bson.D) bson.D {
	sort := bson.D{}

	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		direction := 1
		if strings.HasPrefix(field, "-") {
			direction = -1
			field = field[1:]
		}
		if field == "" {
			continue
		}

		sort = append(sort, bson.E{Key: field, Value: direction})
	}

	if len(sort) > 0 {
		return sort
	}
	if len(defaultSort) > 0 {
		return defaultSort
	}
	return bson.D{{Key: "created_at", Value: -1}}
}

// parseProjection разбирает список возвращаемых полей.
// _id MongoDB включает всегда, отдельно добавлять его не нужно.
func parseProjection(raw string) bson.D {
	if raw == "" {
		return nil
	}

	projection := bson.D{}
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		projection = append(projection, bson.E{Key: field, Value: 1})
	}

	if len(projection) == 0 {
		return nil
	}
	return projection
}

// Execute выполняет запрос: считает общее число совпадений без учета пагинации,
// затем читает страницу с сортировкой и проекцией. out - указатель на срез
// документов. Запрос выполняется безусловно: страница за пределами результата
// дает пустой срез, решение о 404 принимает вызывающий сервис через OutOfRange.
func (q *Query) Execute(ctx context.Context, coll *mongo.Collection, out interface{}) (*Pagination, error) {
	total, err := coll.CountDocuments(ctx, q.Filter)
	if err != nil {
		return nil, err
	}

	findOpts := options.Find().
		SetSort(q.Sort).
		SetSkip(q.Skip).
		SetLimit(q.Limit)
	if q.Projection != nil {
		findOpts.SetProjection(q.Projection)
	}

	cursor, err := coll.Find(ctx, q.Filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return nil, err
	}

	return NewPagination(q.Page, q.Limit, total), nil
}

// OutOfRange сообщает, что клиент явно запросил страницу за пределами результата.
// Проверка намеренно не выполняется внутри Execute: сервис сам решает,
// надо ли превращать пустую страницу в ошибку "страница не существует".
func (q *Query) OutOfRange(p *Pagination) bool {
	return q.explicitPage && q.Skip >= p.TotalResults
}
