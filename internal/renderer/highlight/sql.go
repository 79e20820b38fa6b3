package highlight

// SQL returns a highlighter for PostgreSQL statements and psql style
// backslash commands.
func SQL() *Highlighter {
	h := New("sql")

	h.AddMultiLine("/*", "*/", TokenComment)
	h.AddMultiLine("$$", "$$", TokenString)
	h.AddMultiLine("'", "'", TokenString)

	h.AddRule(`--.*`, TokenComment)
	h.AddRule(`\\[A-Za-z?!+]+`, TokenMetaCommand)
	h.AddRule(`"[^"]*"`, TokenQuotedIdentifier)
	h.AddRule(`\$[0-9]+`, TokenParameter)
	h.AddRule(`::`, TokenOperator)
	h.AddRule(`:['"]?[A-Za-z_][A-Za-z0-9_]*['"]?`, TokenParameter)
	h.AddRule(`[0-9]+(?:\.[0-9]*)?(?:[eE][+-]?[0-9]+)?|\.[0-9]+`, TokenNumber)
	h.AddRule(`<>|<=|>=|!=|\|\||->>|->|[-+*/%=<>!~^&|@#]`, TokenOperator)
	h.AddRule(`[(),;.\[\]]`, TokenPunctuation)

	h.AddKeywords(TokenKeyword,
		"all", "alter", "analyze", "and", "any", "as", "asc", "begin", "between",
		"by", "cascade", "case", "check", "column", "commit", "constraint",
		"create", "cross", "database", "default", "delete", "desc", "distinct",
		"do", "drop", "else", "end", "except", "exists", "explain", "extension",
		"foreign", "from", "full", "function", "grant", "group", "having", "if",
		"ilike", "in", "index", "inner", "insert", "intersect", "into", "is",
		"join", "key", "lateral", "left", "like", "limit", "materialized", "not",
		"offset", "on", "or", "order", "outer", "over", "partition", "primary",
		"references", "returning", "revoke", "right", "rollback", "schema",
		"select", "sequence", "set", "show", "table", "then", "to", "transaction",
		"trigger", "truncate", "union", "unique", "update", "using", "vacuum",
		"values", "view", "when", "where", "window", "with",
	)
	h.AddKeywords(TokenDataType,
		"bigint", "bigserial", "bit", "boolean", "bool", "bytea", "char",
		"character", "cidr", "date", "decimal", "double", "float", "inet", "int",
		"integer", "interval", "json", "jsonb", "money", "numeric", "precision",
		"real", "serial", "smallint", "text", "time", "timestamp", "timestamptz",
		"tsvector", "uuid", "varchar", "varying", "xml",
	)
	h.AddKeywords(TokenConstant, "true", "false", "null", "current_date",
		"current_time", "current_timestamp", "current_user")
	h.AddKeywords(TokenFunction,
		"avg", "coalesce", "count", "greatest", "least", "lower", "max", "min",
		"now", "nullif", "row_number", "string_agg", "sum", "upper",
	)
	return h
}
