package contextkeys

type contextKey string

const (
	// ActorKey - имя пользователя, от лица которого выполняется запрос.
	ActorKey contextKey = "Actor"
)
