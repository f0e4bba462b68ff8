package utils

type Metric struct {
	StorageRead  chan float64
	StorageWrite chan float64
}

func NewMetric() *Metric {
	return &Metric{
		StorageRead:  make(chan float64),
		StorageWrite: make(chan float64),
	}
}
