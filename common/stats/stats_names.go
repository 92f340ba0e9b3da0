package stats

/*
This file defines all the metrics being collected. As new metrics are added please follow this pattern.
*/

const (
	/****************** Upload server metrics ***************************/
	/*
		number of clients accepted by AddClient
	*/
	UploadClientsAddedCounter = "clientsAddedCounter"

	/*
		number of AddClient calls rejected (invalid client or disposed server)
	*/
	UploadAddClientRejectedCounter = "addClientRejectedCounter"

	/*
		number of clients dropped from the waiting set, either explicitly or because their last file
		was dispatched
	*/
	UploadClientsRemovedCounter = "clientsRemovedCounter"

	/*
		number of files handed to a transfer slot
	*/
	UploadFilesDispatchedCounter = "filesDispatchedCounter"

	/*
		number of file transfers that ran to completion
	*/
	UploadTransfersCompletedCounter = "transfersCompletedCounter"

	/*
		number of clients currently in the waiting set
	*/
	UploadWaitingClientsGauge = "waitingClientsGauge"

	/*
		number of slots currently transferring a file
	*/
	UploadBusySlotsGauge = "busySlotsGauge"

	/*
		score of the client at the head of the waiting set, 0 when it is empty
	*/
	UploadTopPriorityGauge = "topPriorityGauge"

	/*
		how long a client had waited when one of its files was dispatched
	*/
	UploadDispatchWaitTime_ms = "dispatchWaitTime_ms"

	/*
		time spent in one dispatch pass
	*/
	UploadDispatchLatency_ms = "dispatchLatency_ms"

	/****************** Transfer slot metrics ***************************/
	/*
		number of ticks processed by all slots
	*/
	SlotTicksCounter = "ticksCounter"

	/*
		number of listener panics recovered by a slot's tick process
	*/
	SlotPanicCounter = "slotPanicCounter"

	/****************** Workload generator metrics **********************/
	/*
		number of clients created by the generator
	*/
	GeneratorClientsCounter = "clientsGeneratedCounter"

	/*
		number of generated clients the sink refused
	*/
	GeneratorSinkErrCounter = "sinkErrCounter"
)
