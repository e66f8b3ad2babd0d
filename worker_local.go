package spectre

// NewGoroutineWorker returns a WorkerFunc backed by a single long-lived
// goroutine reached through a single-slot request/response channel pair,
// the in-process analogue of the worker thread in
// original_source/spectre-app/src/worker.rs. Each call blocks the caller
// until the goroutine replies; concurrent calls serialize through the
// channel rather than spawning competing scrypt computations.
func NewGoroutineWorker() WorkerFunc {
	requests := make(chan WorkerMessage)
	responses := make(chan WorkerMessage)

	go func() {
		for req := range requests {
			responses <- computeWorkerResponse(req)
		}
	}()

	return func(req WorkerMessage) (WorkerMessage, error) {
		requests <- req
		return <-responses, nil
	}
}

func computeWorkerResponse(req WorkerMessage) WorkerMessage {
	if req.Type != workerMsgGenerateKey {
		return newKeyError(wrapError("key_derivation_failed", "unexpected request type: "+req.Type, nil))
	}

	key, err := DeriveUserKey(req.Name, req.Secret, AlgorithmCurrent)
	if err != nil {
		return newKeyError(err)
	}
	return newKeyResult(key)
}
