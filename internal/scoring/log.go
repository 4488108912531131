package scoring

// Log keeps the most recent records, newest first.
type Log struct {
	size    int
	records []Record
}

func NewLog(size int) *Log {
	if size <= 0 {
		size = DefaultLogSize
	}
	return &Log{size: size, records: make([]Record, 0, size+1)}
}

// Push inserts r at the front and drops the oldest entry past capacity.
func (l *Log) Push(r Record) {
	l.records = append(l.records, Record{})
	copy(l.records[1:], l.records)
	l.records[0] = r
	if len(l.records) > l.size {
		l.records = l.records[:l.size]
	}
}

// Records returns a newest-first copy.
func (l *Log) Records() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

func (l *Log) Len() int { return len(l.records) }
func (l *Log) Cap() int { return l.size }

func (l *Log) Reset() {
	l.records = l.records[:0]
}
