package domain

// JobResult is the terminal outcome of one scheduled job invocation.
// Jobs never propagate errors to the scheduler; failures are carried here
// and rendered into the job's log stream.
type JobResult struct {
	Success bool
	Message string
	Details []string
}

func Succeeded(message string, details ...string) JobResult {
	return JobResult{Success: true, Message: message, Details: details}
}

func Failed(reason string) JobResult {
	return JobResult{Success: false, Message: reason}
}
