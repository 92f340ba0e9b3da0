/*
Package server provides UploadServer which admits upload Clients and serves their files on a
fixed pool of TransferSlots.

* Concepts *
Waiting set:
  Every Client that still has files to upload, ordered by priority. A Client keeps its place while one
  of its files is transferring; it is simply not eligible for another slot until that transfer completes.
  The Client leaves the waiting set the moment its last file is handed to a slot.

Priority:
  score = t^2 + k/s  (t: seconds waited, k: waiting set size, s: size of the first pending file)
  Higher scores are served first. Scores are recomputed from live values on every re-sort.

TransferSlot:
  One of NumSlots workers. A slot uploads one file at a time, advancing one tick per TickInterval.
  A file of size n completes after n ticks.

* Logic *
Dispatch runs after every add, remove and completion:
  for each idle slot, in pool order, assign the highest priority waiting client not already being served.
  Stop when no idle slot or no eligible client remains.

* Concurrency *
UploadServer state is guarded by one mutex. Each TransferSlot guards its own counters with a private mutex.
The server may call into a slot while holding its lock (Assign, Snapshot), never the other way around:
slots notify the server only after releasing their own lock.
*/
package server
