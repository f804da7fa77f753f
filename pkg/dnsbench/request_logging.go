package dnsbench

import (
	"log"
)

func logSample(l *log.Logger, provider string, s Sample) {
	l.Printf("provider:[%s] round:[%d] domain:[%s] outcome:[%s] connect:[%v] err:[%v] duration:[%v]",
		provider, s.Round, s.Domain, s.Failure, s.Connect, s.Err, s.Latency)
}
