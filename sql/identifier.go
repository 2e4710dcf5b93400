package sql

import (
	"strings"
	"sync"
)

// Identifier is an interned name. Reserved keywords are negative.
type Identifier int

const MaxIdentifier = 128

// Well known, non-reserved identifiers.
const (
	ABS Identifier = iota + 1
	AVG
	COALESCE
	CONCAT
	COUNT
	COUNT_ALL
	LENGTH
	LOWER
	MAX
	MIN
	SUM
	UPPER
)

const (
	AND Identifier = -(iota + 1)
	AS
	ASC
	BETWEEN
	BY
	CASE
	CROSS
	DESC
	ELSE
	END
	EXISTS
	FALSE
	FROM
	GROUP
	HAVING
	IN
	INNER
	IS
	JOIN
	LEFT
	LIMIT
	NOT
	NULL
	OFFSET
	ON
	OR
	ORDER
	OUTER
	SELECT
	THEN
	TRUE
	VALUES
	WHEN
	WHERE
)

var knownIdentifiers = map[string]Identifier{
	"abs":       ABS,
	"avg":       AVG,
	"coalesce":  COALESCE,
	"concat":    CONCAT,
	"count":     COUNT,
	"count_all": COUNT_ALL,
	"length":    LENGTH,
	"lower":     LOWER,
	"max":       MAX,
	"min":       MIN,
	"sum":       SUM,
	"upper":     UPPER,
}

var knownKeywords = map[string]Identifier{
	"AND":     AND,
	"AS":      AS,
	"ASC":     ASC,
	"BETWEEN": BETWEEN,
	"BY":      BY,
	"CASE":    CASE,
	"CROSS":   CROSS,
	"DESC":    DESC,
	"ELSE":    ELSE,
	"END":     END,
	"EXISTS":  EXISTS,
	"FALSE":   FALSE,
	"FROM":    FROM,
	"GROUP":   GROUP,
	"HAVING":  HAVING,
	"IN":      IN,
	"INNER":   INNER,
	"IS":      IS,
	"JOIN":    JOIN,
	"LEFT":    LEFT,
	"LIMIT":   LIMIT,
	"NOT":     NOT,
	"NULL":    NULL,
	"OFFSET":  OFFSET,
	"ON":      ON,
	"OR":      OR,
	"ORDER":   ORDER,
	"OUTER":   OUTER,
	"SELECT":  SELECT,
	"THEN":    THEN,
	"TRUE":    TRUE,
	"VALUES":  VALUES,
	"WHEN":    WHEN,
	"WHERE":   WHERE,
}

var (
	mutex          sync.RWMutex
	lastIdentifier = Identifier(9999)
	identifiers    = map[string]Identifier{}
	keywords       = map[string]Identifier{}
	names          = map[Identifier]string{}
)

func intern(s string) Identifier {
	mutex.RLock()
	id, found := identifiers[s]
	mutex.RUnlock()
	if found {
		return id
	}

	mutex.Lock()
	defer mutex.Unlock()

	if id, found := identifiers[s]; found {
		return id
	}
	lastIdentifier += 1
	identifiers[s] = lastIdentifier
	names[lastIdentifier] = s
	return lastIdentifier
}

// ID returns the identifier for s: a keyword if s names one, otherwise the case folded name.
func ID(s string) Identifier {
	if len(s) > MaxIdentifier {
		s = s[:MaxIdentifier]
	}

	if id, found := keywords[strings.ToUpper(s)]; found {
		return id
	}
	return intern(strings.ToLower(s))
}

// UnquotedID is ID without the keyword lookup.
func UnquotedID(s string) Identifier {
	if len(s) > MaxIdentifier {
		s = s[:MaxIdentifier]
	}
	return intern(strings.ToLower(s))
}

// QuotedID preserves the case of s and never returns a keyword.
func QuotedID(s string) Identifier {
	if len(s) > MaxIdentifier {
		s = s[:MaxIdentifier]
	}
	return intern(s)
}

func (id Identifier) String() string {
	mutex.RLock()
	defer mutex.RUnlock()

	return names[id]
}

func (id Identifier) IsReserved() bool {
	return id < 0
}

func init() {
	for s, id := range knownIdentifiers {
		identifiers[s] = id
		names[id] = s
	}
	for s, id := range knownKeywords {
		keywords[s] = id
		names[id] = s
	}
}
