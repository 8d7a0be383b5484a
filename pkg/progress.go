package dup

// Progress receives pair processing signals. The total is known before the first pair.
type Progress interface {
	Start(total uint64)
	Increment()
	Finish()
}

// NopProgress discards all progress signals
type NopProgress struct{}

func (NopProgress) Start(uint64) {}
func (NopProgress) Increment()   {}
func (NopProgress) Finish()      {}
