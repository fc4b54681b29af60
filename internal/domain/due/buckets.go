package due

import "sort"

// Bucket son las dosis de un grupo en un día.
type Bucket struct {
	Scheduled   []DueDose
	Unscheduled []DueDose
}

// Complete: todas las dosis del bucket tomadas. Un bucket vacío está completo.
func (b Bucket) Complete() bool {
	for _, d := range b.Scheduled {
		if !d.IsDone {
			return false
		}
	}
	for _, d := range b.Unscheduled {
		if !d.IsDone {
			return false
		}
	}
	return true
}

func (b Bucket) Pending() int {
	n := 0
	for _, d := range b.Scheduled {
		if !d.IsDone {
			n++
		}
	}
	return n
}

// Buckets indexa por clave de grupo (Ungrouped para nil).
type Buckets map[string]Bucket

// Get devuelve el bucket o uno vacío si el grupo no tiene dosis ese día.
func (b Buckets) Get(groupKey string) Bucket {
	if bucket, ok := b[groupKey]; ok {
		return bucket
	}
	return Bucket{Scheduled: []DueDose{}, Unscheduled: []DueDose{}}
}

// Keys en orden estable; Ungrouped queda primero.
func (b Buckets) Keys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ByGroup particiona el set por grupo.
func (s DueSet) ByGroup() Buckets {
	out := Buckets{}
	for _, d := range s.Scheduled {
		bucket := out.Get(d.GroupKey())
		bucket.Scheduled = append(bucket.Scheduled, d)
		out[d.GroupKey()] = bucket
	}
	for _, d := range s.Unscheduled {
		bucket := out.Get(d.GroupKey())
		bucket.Unscheduled = append(bucket.Unscheduled, d)
		out[d.GroupKey()] = bucket
	}
	return out
}
